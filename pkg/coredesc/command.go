// SPDX-License-Identifier: MPL-2.0

package coredesc

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnsupportedCommand is returned when a script command string is not a
// single simple command made of plain words.
var ErrUnsupportedCommand = errors.New("unsupported script command")

// splitCommand splits a shell-quoted command line into argv. Quotes are
// removed; parameter expansions and tildes are kept as written so the runner
// can expand them. Command substitution, pipelines, lists and redirections
// are rejected.
func splitCommand(src string) ([]string, error) {
	f, err := syntax.NewParser().Parse(strings.NewReader(src), "")
	if err != nil {
		return nil, err
	}
	switch len(f.Stmts) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %q holds more than one command", ErrUnsupportedCommand, src)
	}

	st := f.Stmts[0]
	call, ok := st.Cmd.(*syntax.CallExpr)
	if !ok || st.Negated || st.Background || st.Coprocess || len(st.Redirs) > 0 || len(call.Assigns) > 0 {
		return nil, fmt.Errorf("%w: %q is not a simple command", ErrUnsupportedCommand, src)
	}

	args := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		var sb strings.Builder
		if err := writeWord(&sb, src, w.Parts, false); err != nil {
			return nil, err
		}
		args = append(args, sb.String())
	}
	return args, nil
}

func writeWord(sb *strings.Builder, src string, parts []syntax.WordPart, quoted bool) error {
	for _, part := range parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(unescape(p.Value, quoted))
		case *syntax.SglQuoted:
			if p.Dollar {
				return fmt.Errorf("%w: ANSI-C quoting at %s", ErrUnsupportedCommand, p.Pos())
			}
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			if err := writeWord(sb, src, p.Parts, true); err != nil {
				return err
			}
		case *syntax.ParamExp:
			sb.WriteString(src[p.Pos().Offset():p.End().Offset()])
		case *syntax.CmdSubst:
			return fmt.Errorf("%w: command substitution at %s", ErrUnsupportedCommand, p.Pos())
		default:
			return fmt.Errorf("%w: expansion at %s", ErrUnsupportedCommand, part.Pos())
		}
	}
	return nil
}

// unescape drops backslash escapes the way the shell does. Inside double
// quotes only $ ` " \ and newline are escapable.
func unescape(s string, quoted bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch {
		case next == '\n':
			i++
		case !quoted || strings.IndexByte("$`\"\\", next) >= 0:
			sb.WriteByte(next)
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
