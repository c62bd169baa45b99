package accumulator

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding so equal groups serialize to equal bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("accumulator: CBOR encoder initialization failed: " + err.Error())
	}
}

type serializedGroup struct {
	ID      string   `cbor:"1,keyasint"`
	Depth   int      `cbor:"2,keyasint"`
	Members []string `cbor:"3,keyasint"`
}

// Marshal serializes the group's id, depth and ordered leaves.
func (g *Group) Marshal() ([]byte, error) {
	return encMode.Marshal(serializedGroup{ID: g.id, Depth: g.depth, Members: g.members})
}

// Unmarshal rebuilds a group from Marshal output.
func Unmarshal(data []byte) (*Group, error) {
	var payload serializedGroup
	if err := cbor.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode group: %w", err)
	}
	return NewGroup(payload.ID, payload.Depth, payload.Members)
}
