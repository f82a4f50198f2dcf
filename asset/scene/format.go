package scene

// The magic bytes at the start of every serialized BVH.
const Magic = "BVH1"

// Values of the is_leaf byte of a serialized node record.
const (
	InternalNodeTag uint8 = 0
	LeafNodeTag     uint8 = 1
)
