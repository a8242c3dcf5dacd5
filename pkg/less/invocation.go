package less

import (
	"strings"
)

// Invocation is a program plus discrete argument tokens. It is executed
// directly, never through a shell.
type Invocation struct {
	Program string
	Args    []string
	// quoted holds the indices of Args that carry user-supplied text.
	quoted map[int]bool
}

// NewInvocation renders a validated request for op into an argument list.
// prefix is inserted between the program and the operation's command tokens.
//
// Absent optional parameters and empty lists emit nothing. Lists emit one
// flag followed by every element in order.
func NewInvocation(program string, prefix []string, op Operation, req Request) Invocation {
	inv := Invocation{Program: program, quoted: map[int]bool{}}
	inv.Args = append(inv.Args, prefix...)
	inv.Args = append(inv.Args, op.Command...)

	for _, p := range op.Params {
		switch p.Kind {
		case KindStringList:
			items := req.Strings(p.Name)
			if len(items) == 0 {
				continue
			}
			inv.flag(p.Flag)
			for _, item := range items {
				inv.value(item, p.Quoted)
			}
		default:
			v, ok := req.String(p.Name)
			if !ok || (v == "" && !p.Required) {
				continue
			}
			inv.flag(p.Flag)
			inv.value(v, p.Quoted)
		}
	}
	return inv
}

func (i *Invocation) flag(f string) {
	if f != "" {
		i.Args = append(i.Args, f)
	}
}

func (i *Invocation) value(v string, quoted bool) {
	if quoted {
		i.quoted[len(i.Args)] = true
	}
	i.Args = append(i.Args, v)
}

// Quoted reports whether the argument at index idx is user-supplied text.
func (i Invocation) Quoted(idx int) bool {
	return i.quoted[idx]
}

// String renders the invocation as a shell command line, double-quoting
// user-supplied values. Values are not escaped; the line is for display.
func (i Invocation) String() string {
	var b strings.Builder
	b.WriteString(i.Program)
	for idx, arg := range i.Args {
		b.WriteByte(' ')
		if i.quoted[idx] {
			b.WriteByte('"')
			b.WriteString(arg)
			b.WriteByte('"')
			continue
		}
		b.WriteString(arg)
	}
	return b.String()
}
