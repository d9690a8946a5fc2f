// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration
//   - NormaliserRegistry: Converts report files (HTML, email, Word) to text
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, lab report extraction is disabled
//     and only explicit biomarker values can be calculated.
//   - PromptStore: User-editable prompt templates. Without it, embedded defaults are used.
//   - AIConfigValidator: Connectivity checks for provider settings.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
