package lower

import (
	"fmt"
	"strconv"
)

// nameManager fabricates unique IR names.  Temporaries (`%0`, `%1`, ...) and
// labels (`%then_1`, `%then_2`, ...) are numbered per function; variables are
// named after their source identifier (`@x`, `@x_1`, `@x_2`, ...).  The names
// of top level items are reserved for the whole compilation unit so no local
// name can collide with them.
type nameManager struct {
	// globals is the set of reserved top level IR names.
	globals map[string]bool

	// taken is the set of variable IR names used in the current function.
	taken map[string]bool

	temps  int
	labels map[string]int
}

func newNameManager() *nameManager {
	nm := &nameManager{globals: make(map[string]bool)}
	nm.reset()
	return nm
}

// reset prepares the name manager for a new function.
func (nm *nameManager) reset() {
	nm.taken = make(map[string]bool)
	nm.temps = 0
	nm.labels = make(map[string]int)
}

// reserve reserves the IR name of a top level item and returns it.
func (nm *nameManager) reserve(name string) string {
	irName := "@" + name
	nm.globals[irName] = true
	return irName
}

// freshVar returns a new variable name derived from name.
func (nm *nameManager) freshVar(name string) string {
	irName := "@" + name
	for i := 1; nm.taken[irName] || nm.globals[irName]; i++ {
		irName = fmt.Sprintf("@%s_%d", name, i)
	}

	nm.taken[irName] = true
	return irName
}

// freshTemp returns a new anonymous temporary.
func (nm *nameManager) freshTemp() string {
	name := "%" + strconv.Itoa(nm.temps)
	nm.temps++
	return name
}

// freshLabel returns a new label derived from hint.
func (nm *nameManager) freshLabel(hint string) string {
	nm.labels[hint]++
	return fmt.Sprintf("%%%s_%d", hint, nm.labels[hint])
}
