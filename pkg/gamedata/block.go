package gamedata

// Block is an interned, process-global block description. Sections never
// store Block values directly — they store a *Block pointer to the
// interned value a BlockRegistry hands out, and the numeric ID is read
// from it when a block is serialized. The pointer's identity is stable
// for the process lifetime, satisfying the "interned block metadata"
// invariant from the chunk data model.
type Block struct {
	ID          int
	Name        string
	DisplayName string
	Hardness    *float64
	Material    string
	Transparent bool
	EmitLight   int
	FilterLight int
}

// Air is the interned block used for absent sections and unset slots.
var Air = &Block{ID: 0, Name: "air", DisplayName: "Air", Transparent: true}
