package models

// Direction represents the direction a phrase is practiced in
type Direction string

const (
	// SourceToTarget asks for the Portuguese text given the English one
	SourceToTarget Direction = "source_to_target"
	// TargetToSource asks for the English text given the Portuguese one
	TargetToSource Direction = "target_to_source"
)

// Expected returns the text the learner is asked to produce
func (d Direction) Expected(p Phrase) string {
	if d == TargetToSource {
		return p.SourceText
	}
	return p.TargetText
}

// Prompt returns the text shown to the learner
func (d Direction) Prompt(p Phrase) string {
	if d == TargetToSource {
		return p.TargetText
	}
	return p.SourceText
}
