package highlight

// LabelView is an ordered label-to-transcription map for the sheet
// renderer. Setting an existing label overwrites its text in place,
// keeping the original position.
type LabelView struct {
	order []string
	texts map[string]string
}

// NewLabelView returns an empty view.
func NewLabelView() *LabelView {
	return &LabelView{texts: make(map[string]string)}
}

// Set records text under label, last write wins.
func (v *LabelView) Set(label, text string) {
	if _, ok := v.texts[label]; !ok {
		v.order = append(v.order, label)
	}
	v.texts[label] = text
}

// Labels returns the labels in insertion order.
func (v *LabelView) Labels() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Text returns the transcription stored under label.
func (v *LabelView) Text(label string) (string, bool) {
	text, ok := v.texts[label]
	return text, ok
}

// Len returns the number of distinct labels.
func (v *LabelView) Len() int {
	return len(v.order)
}
