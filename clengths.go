// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

// clToken is one symbol of the code-length alphabet (0-18) queued for
// emission, paired with the extra-bits value a 16/17/18 repeat symbol
// carries.
type clToken struct {
	sym   int
	extra int
}

// rleCodeLengths run-length encodes a sequence of code lengths (the
// concatenated literal/length and distance code length tables) using the
// DEFLATE code-length alphabet: 0-15 transmit a length literally, 16
// repeats the previous length 3-6 times, 17 repeats a zero length 3-10
// times, and 18 repeats a zero length 11-138 times.
func rleCodeLengths(lens []uint8) []clToken {
	var out []clToken
	i := 0
	for i < len(lens) {
		v := lens[i]
		j := i + 1
		for j < len(lens) && lens[j] == v {
			j++
		}
		run := j - i
		if v == 0 {
			for run > 0 {
				switch {
				case run >= 11:
					n := run
					if n > 138 {
						n = 138
					}
					out = append(out, clToken{18, n - 11})
					run -= n
				case run >= 3:
					out = append(out, clToken{17, run - 3})
					run = 0
				default:
					for k := 0; k < run; k++ {
						out = append(out, clToken{0, 0})
					}
					run = 0
				}
			}
		} else {
			out = append(out, clToken{int(v), 0})
			run--
			for run > 0 {
				if run >= 3 {
					n := run
					if n > 6 {
						n = 6
					}
					out = append(out, clToken{16, n - 3})
					run -= n
				} else {
					for k := 0; k < run; k++ {
						out = append(out, clToken{int(v), 0})
					}
					run = 0
				}
			}
		}
		i = j
	}
	return out
}
