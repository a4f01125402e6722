package level

import "testing"

type ownerRecorder struct {
	states   []GameState
	managers []*Manager
}

func (o *ownerRecorder) ChangeState(state GameState, m *Manager) {
	o.states = append(o.states, state)
	o.managers = append(o.managers, m)
}

func TestEndLevelChangesState(t *testing.T) {
	cases := []struct {
		name  string
		final bool
		want  GameState
	}{
		{"intermediate_level", false, LevelEnd},
		{"final_level", true, GameEnd},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			owner := &ownerRecorder{}
			m := NewManager(Config{Name: c.name, Final: c.final}, owner, nil)
			m.StartLevel()
			m.EndLevel()

			if len(owner.states) != 1 || owner.states[0] != c.want {
				t.Fatalf("expected [%v], got %v", c.want, owner.states)
			}
			if owner.managers[0] != m {
				t.Fatalf("expected owner to receive the manager")
			}
		})
	}
}

func TestListenersOrder(t *testing.T) {
	var order []string
	m := NewManager(Config{Name: "level1"}, ownerFunc(func(GameState, *Manager) {
		order = append(order, "owner")
	}), nil)

	m.OnStart(func() { order = append(order, "start1") })
	m.OnStart(func() { order = append(order, "start2") })
	m.OnEnd(func() { order = append(order, "end") })
	m.OnEnd(nil)

	m.StartLevel()
	m.EndLevel()

	want := []string{"start1", "start2", "end", "owner"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

type ownerFunc func(GameState, *Manager)

func (f ownerFunc) ChangeState(s GameState, m *Manager) { f(s, m) }

func TestEndLevelOncePerRun(t *testing.T) {
	owner := &ownerRecorder{}
	ends := 0
	m := NewManager(Config{Name: "level1"}, owner, nil)
	m.OnEnd(func() { ends++ })

	m.StartLevel()
	first := m.RunID()
	if first == "" {
		t.Fatalf("expected a run id after StartLevel")
	}
	m.EndLevel()
	m.EndLevel()
	if ends != 1 || len(owner.states) != 1 {
		t.Fatalf("expected one end per run, got ends=%d states=%v", ends, owner.states)
	}

	m.StartLevel()
	if m.RunID() == first {
		t.Fatalf("expected a new run id on restart")
	}
	if m.Ended() {
		t.Fatalf("expected restart to clear ended")
	}
	m.EndLevel()
	if ends != 2 {
		t.Fatalf("expected second run to end, got %d", ends)
	}
}

func TestNilOwner(t *testing.T) {
	m := NewManager(Config{Name: "solo", Final: true}, nil, nil)
	m.StartLevel()
	m.EndLevel()
	if !m.Ended() {
		t.Fatalf("expected level ended")
	}
}

func TestGameStateString(t *testing.T) {
	cases := []struct {
		state GameState
		want  string
	}{
		{Playing, "playing"},
		{Paused, "paused"},
		{LevelEnd, "level_end"},
		{GameEnd, "game_end"},
		{GameState(42), "unknown"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := c.state.String(); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}
