package file

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}
