package inventory

import "github.com/a3tai/mcp-inventory-sync/internal/textnorm"

// SerialIndex maps a normalized serial key to every row carrying it, in row
// order. Duplicate serials are legal.
type SerialIndex struct {
	Collection *Collection
	Schema     Schema
	keys       map[string][]RowID
}

// BuildSerialIndex indexes the serial column of c. A schema without a serial
// column yields an empty index.
func BuildSerialIndex(c *Collection, s Schema) *SerialIndex {
	ix := &SerialIndex{Collection: c, Schema: s, keys: make(map[string][]RowID)}
	col, ok := s.Column(RoleSerial)
	if !ok {
		return ix
	}
	for i := range c.Len() {
		id := RowID(i)
		key := textnorm.Serial(c.Cell(id, col).String())
		if key == "" {
			continue
		}
		ix.keys[key] = append(ix.keys[key], id)
	}
	return ix
}

// Lookup returns the rows sharing key
func (ix *SerialIndex) Lookup(key string) []RowID {
	if key == "" {
		return nil
	}
	return ix.keys[key]
}

// Keys returns the number of distinct serial keys
func (ix *SerialIndex) Keys() int {
	return len(ix.keys)
}
