// Package questionpack loads bundled question packs from seed files or a
// remote pack registry and imports them into the question bank.
package questionpack

// Pack is a named collection of practice questions.
type Pack struct {
	Name      string      `json:"name" yaml:"name"`
	Version   string      `json:"version,omitempty" yaml:"version,omitempty"`
	Questions []PackEntry `json:"questions" yaml:"questions"`
}

// PackEntry is one question as it appears inside a pack file.
type PackEntry struct {
	ID             string   `json:"id,omitempty" yaml:"id,omitempty"`
	Archetype      string   `json:"archetype" yaml:"archetype"`
	DifficultyBase int      `json:"difficulty_base" yaml:"difficulty_base"`
	PromptText     string   `json:"prompt_text" yaml:"prompt_text"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}
