package riscv

import "testing"

func TestRegPoolOrder(t *testing.T) {
	p := newRegPool(2, 2)

	var got []string
	for {
		r, ok := p.acquire()
		if !ok {
			break
		}

		got = append(got, r.String())
	}

	want := []string{"t0", "t1", "a0", "a1"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRegPoolReleaseReuses(t *testing.T) {
	p := newRegPool(NumTemporaries, NumArguments)

	a, _ := p.acquire()
	b, _ := p.acquire()
	p.release(a)

	if c, _ := p.acquire(); c != a {
		t.Errorf("expected the lowest free register %s, got %s", a, c)
	}

	p.release(RegZero)

	if occ := p.occupied(); len(occ) != 2 || occ[1] != b {
		t.Errorf("occupied: %v", occ)
	}

	p.reset()
	if len(p.occupied()) != 0 {
		t.Errorf("reset must free every register")
	}
}

func TestRegNames(t *testing.T) {
	cases := map[Reg]string{
		RegZero:   "x0",
		RegSP:     "sp",
		RegRA:     "ra",
		Reg(6):    "t6",
		ArgReg(0): "a0",
		ArgReg(7): "a7",
	}

	for r, want := range cases {
		if r.String() != want {
			t.Errorf("got %s, want %s", r.String(), want)
		}
	}
}
