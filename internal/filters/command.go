package filters

// Op is the mutation a Command performs.
type Op int

const (
	// OpToggle adds the filter when absent and removes it when present.
	OpToggle Op = iota
	// OpAdd adds the filter.
	OpAdd
	// OpRemove removes the filter.
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "toggle"
	}
}

// Command is a single pending filter mutation.
type Command[F comparable] struct {
	Op     Op
	Filter F
}

// Toggle returns a toggle command for f.
func Toggle[F comparable](f F) Command[F] {
	return Command[F]{Op: OpToggle, Filter: f}
}

// Apply runs the commands against s in order.
func Apply[F comparable](s *Set[F], cmds []Command[F]) {
	for _, cmd := range cmds {
		switch cmd.Op {
		case OpAdd:
			s.Add(cmd.Filter)
		case OpRemove:
			s.Remove(cmd.Filter)
		default:
			s.Toggle(cmd.Filter)
		}
	}
}
