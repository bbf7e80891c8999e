package sim

import (
	"fmt"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// An Event is the record of one processed access: the input record plus
// the outcome of each resolver pass. Ignored records carry no outcomes.
type Event struct {
	Access
	Outcomes []cache.Outcome
}

// String formats the event as a verbose trace line in the style
// "L 10,1 miss" or "M 7,8 miss eviction hit". The address is printed in
// hex without a prefix, matching the trace-file grammar.
func (e Event) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %x,%d", e.Kind, e.Address, e.Size)
	for _, o := range e.Outcomes {
		sb.WriteByte(' ')
		sb.WriteString(o.String())
	}

	return sb.String()
}
