// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"bufio"
	"strings"

	"github.com/juju/errors"
)

// ReadLines parses fields of each record of a csv stream. Quoted fields may contain the
// separator, escaped quotes ("") and line breaks. The handler receives the zero-based
// line number where the record starts; a handler error stops reading and is returned.
func ReadLines(sc *bufio.Scanner, sep rune, handler func(int, []string) error) error {
	lineCount := 0               // line number of current position
	startLine := 0               // line number where current record starts
	fields := make([]string, 0)  // fields for current record
	builder := strings.Builder{} // string builder for current field
	quoted := false              // whether current position in quote
	for sc.Scan() {
		line := []rune(sc.Text())
		if quoted {
			builder.WriteString("\n")
		} else {
			startLine = lineCount
		}
		for i := 0; i < len(line); i++ {
			if line[i] == sep && !quoted {
				// end of field
				fields = append(fields, builder.String())
				builder.Reset()
			} else if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						quoted = false
					} else {
						i++
						builder.WriteRune('"')
					}
				} else {
					quoted = true
				}
			} else {
				builder.WriteRune(line[i])
			}
		}
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			if err := handler(startLine, fields); err != nil {
				return err
			}
			fields = []string{}
		}
		lineCount++
	}
	if err := sc.Err(); err != nil {
		return errors.Trace(err)
	}
	if quoted {
		return errors.Errorf("unterminated quote at line %d", startLine+1)
	}
	return nil
}
