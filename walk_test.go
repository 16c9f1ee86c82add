package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingVisitor struct {
	events []string
}

func (r *recordingVisitor) VisitNil() error                  { r.events = append(r.events, "nil"); return nil }
func (r *recordingVisitor) VisitBool(v bool) error            { r.events = append(r.events, "bool"); return nil }
func (r *recordingVisitor) VisitInt(v int64) error             { r.events = append(r.events, "int"); return nil }
func (r *recordingVisitor) VisitUint(v uint64) error           { r.events = append(r.events, "uint"); return nil }
func (r *recordingVisitor) VisitFloat32(v float32) error       { r.events = append(r.events, "float32"); return nil }
func (r *recordingVisitor) VisitFloat64(v float64) error       { r.events = append(r.events, "float64"); return nil }
func (r *recordingVisitor) VisitString(v string) error         { r.events = append(r.events, "string"); return nil }
func (r *recordingVisitor) VisitBinary(v []byte) error         { r.events = append(r.events, "binary"); return nil }
func (r *recordingVisitor) VisitExtension(e Extension) error   { r.events = append(r.events, "extension"); return nil }
func (r *recordingVisitor) VisitTimestamp(ts Timestamp) error  { r.events = append(r.events, "timestamp"); return nil }
func (r *recordingVisitor) VisitArray(count int) (bool, error) {
	r.events = append(r.events, "array")
	return true, nil
}
func (r *recordingVisitor) VisitMap(count int) (bool, error) {
	r.events = append(r.events, "map")
	return true, nil
}

func TestWalkVisitsEveryNode(t *testing.T) {
	m := NewArray([]Message{
		NewInt(1),
		NewMap([]Pair[Message, Message]{{Key: NewString("k"), Value: NewBool(true)}}),
	})
	_, data := Pack(m)

	v := &recordingVisitor{}
	n, err := Walk(NewSliceSource(data), v)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, []string{"array", "int", "map", "string", "bool"}, v.events)
}

func TestWalkSkipsArrayWhenNotDescending(t *testing.T) {
	m := NewArray([]Message{NewInt(1), NewInt(2)})
	_, data := Pack(m)

	v := &skipVisitor{recordingVisitor: recordingVisitor{}}
	n, err := Walk(NewSliceSource(data), v)
	require.NoError(t, err)
	require.Equal(t, []string{"array"}, v.events)
	require.Greater(t, n, 0)
}

type skipVisitor struct {
	recordingVisitor
}

func (s *skipVisitor) VisitArray(count int) (bool, error) {
	s.events = append(s.events, "array")
	return false, nil
}
