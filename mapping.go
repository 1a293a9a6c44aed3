package alsasync

import (
	"strconv"
	"strings"
)

// MaxAmends is the number of amend values a mapping can substitute.
const MaxAmends = 9

// Mapping holds the hardware coordinates a host attaches to a configuration node.
type Mapping struct {
	// Card is a card id such as "Loopback", or a card number.
	Card string
	// Device is the PCM device number, used by ports.
	Device uint
	// Control is a control name or numeric id. "%1" to "%9" are replaced by Amends.
	Control string
	// Index is the ALSA element index, telling apart controls sharing a name.
	Index uint
	// Debug logs every hardware access of the object.
	Debug  bool
	Amends []string
}

// ControlName returns Control with its amend placeholders substituted.
// Placeholders without an amend value are left as they are.
func (m Mapping) ControlName() string {
	if len(m.Amends) == 0 || !strings.Contains(m.Control, "%") {
		return m.Control
	}

	pairs := make([]string, 0, 2*MaxAmends)
	for i, amend := range m.Amends {
		if i == MaxAmends {
			break
		}
		pairs = append(pairs, "%"+strconv.Itoa(i+1), amend)
	}

	return strings.NewReplacer(pairs...).Replace(m.Control)
}

// ControlRef returns the control reference the mapping designates.
func (m Mapping) ControlRef() (ControlRef, error) {
	return ParseControlRef(m.ControlName(), m.Index)
}
