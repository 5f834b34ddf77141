package viewmodel

// reentryGuard marks a synchronous section during which re-entrant calls of
// one kind are dropped. hold nests; the section ends when every release has
// run. Release funcs are meant for defer so a panicking listener cannot leave
// the guard stuck.
type reentryGuard struct {
	depth int
}

func (g *reentryGuard) hold() (release func()) {
	g.depth++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.depth--
	}
}

func (g *reentryGuard) held() bool {
	return g.depth > 0
}
