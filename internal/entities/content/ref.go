package content

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RefKind identifies which positional list a pending reference points into
type RefKind string

// Reference kinds
const (
	// RefSource points at the Nth spell source declared in the same payload
	RefSource RefKind = "source"
	// RefPicker points at the Nth picker, or the Nth alternative spell source
	// at commit time, depending on context
	RefPicker RefKind = "picker"
)

const (
	sourcePrefix = "$source:"
	pickerPrefix = "$picker:"
)

// Ref is a reference to a spell source that may still be symbolic. While a
// payload is in flight a Ref is pending ("$source:2", "$picker:0"); the drop
// handler resolves every pending Ref to a concrete minted identifier before
// the payload is committed. A pending Ref reaching a store is a defect.
type Ref struct {
	kind  RefKind
	index int
	id    string
}

// PendingSource creates a pending reference to the Nth declared spell source
func PendingSource(index int) Ref {
	return Ref{kind: RefSource, index: index}
}

// PendingPicker creates a pending reference to the Nth picker slot
func PendingPicker(index int) Ref {
	return Ref{kind: RefPicker, index: index}
}

// ResolvedRef creates a reference to a concrete identifier
func ResolvedRef(id string) Ref {
	return Ref{id: id}
}

// ParseRef decodes the string form of a reference
func ParseRef(s string) Ref {
	for _, p := range []struct {
		prefix string
		kind   RefKind
	}{
		{sourcePrefix, RefSource},
		{pickerPrefix, RefPicker},
	} {
		if strings.HasPrefix(s, p.prefix) {
			index, err := strconv.Atoi(s[len(p.prefix):])
			if err != nil || index < 0 {
				// Unparseable index degrades to the first slot
				index = 0
			}
			return Ref{kind: p.kind, index: index}
		}
	}
	return Ref{id: s}
}

// IsPending reports whether the reference still needs resolution
func (r Ref) IsPending() bool {
	return r.kind != ""
}

// IsZero reports whether the reference is unset
func (r Ref) IsZero() bool {
	return r.kind == "" && r.id == ""
}

// Kind returns the pending kind, or "" for a resolved reference
func (r Ref) Kind() RefKind {
	return r.kind
}

// Index returns the positional index of a pending reference
func (r Ref) Index() int {
	return r.index
}

// ID returns the concrete identifier of a resolved reference
func (r Ref) ID() string {
	return r.id
}

// String returns the wire form of the reference
func (r Ref) String() string {
	switch r.kind {
	case RefSource:
		return fmt.Sprintf("%s%d", sourcePrefix, r.index)
	case RefPicker:
		return fmt.Sprintf("%s%d", pickerPrefix, r.index)
	default:
		return r.id
	}
}

// MarshalJSON encodes the reference as its string form
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a reference from its string form
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRef(s)
	return nil
}

// PickerAttribute returns the symbolic attribute name targeting the Nth
// picker slot of the owning container
func PickerAttribute(index int) string {
	return fmt.Sprintf("%s%d", pickerPrefix, index)
}
