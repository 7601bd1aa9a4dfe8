package pipeline

// Artifact is a finished animation ready for delivery. The bytes are held
// in memory because the workspace that produced them is gone by the time
// delivery happens.
type Artifact struct {
	Name string
	Data []byte
}
