// SPDX-License-Identifier: MIT

// Package txt reads and writes the line-oriented tracking exchange format.
//
// Input records, one per line:
//
//	H <timestep> <id> <cost>                 detection hypothesis
//	APP <id> <detection id> <cost>           appearance of a detection
//	DISAPP <id> <detection id> <cost>        disappearance of a detection
//	MOVE <id> <from id> <to id> <cost>       transition
//	DIV <id> <from id> <to1 id> <to2 id> <cost>
//	CONFSET <id> + <id> + ... <= 1           conflict set of detection ids
//
// Blank lines and lines starting with '#' are comments. Any other line is a
// *ParseError.
//
// Reader streams typed records; Convert folds them into a *model.Model and a
// BiMap between external ids and model keys; Format writes an active
// solution back as APP/H/DISAPP/MOVE/DIV lines carrying the external ids.
// Open transparently decompresses .xz, .zst and .gz inputs.
package txt
