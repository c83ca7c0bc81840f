// Package playerdata provides file-backed persistence for player characters
// and parties.
//
// One data directory holds one party file plus N character files. Loading is
// single-shot and synchronous: files read at startup, defaults filled in
// memory only, nothing watched. Editing a file while the game runs requires a
// restart to take effect.
package playerdata

import (
	"context"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
)

// DefaultPartyFilename is the party file name inside the data directory
const DefaultPartyFilename = "party.json"

// Documented defaults substituted for schema fields absent from a file.
// Generated values (id, created_at) are produced once at load time.
const (
	DefaultLevel      = 1
	DefaultHitPoints  = 8
	DefaultArmorClass = 10
	DefaultStat       = 10
	DefaultAlignment  = "True Neutral"
)

// Repository defines the interface for player data persistence
type Repository interface {
	// LoadCharacter reads a single character file and fills defaults.
	// Returns errors.NotFound if the file doesn't exist
	// Returns errors.InvalidArgument for malformed JSON, naming the file
	LoadCharacter(ctx context.Context, input LoadCharacterInput) (*LoadCharacterOutput, error)

	// SaveCharacter serializes a character to its file, preserving any
	// custom attributes captured at load time
	SaveCharacter(ctx context.Context, input SaveCharacterInput) (*SaveCharacterOutput, error)

	// LoadParty reads the party file and resolves every member_files entry
	// against the same directory.
	// Returns errors.NotFound if the party file or any referenced member
	// file doesn't exist (missing members are a hard failure)
	// Returns errors.InvalidArgument for malformed JSON, naming the file
	LoadParty(ctx context.Context, input LoadPartyInput) (*LoadPartyOutput, error)

	// SaveParty writes member character files first, then the party file
	// with regenerated member_files references
	SaveParty(ctx context.Context, input SavePartyInput) (*SavePartyOutput, error)

	// ListCharacters lists character filenames in the data directory,
	// excluding the party file
	ListCharacters(ctx context.Context, input ListCharactersInput) (*ListCharactersOutput, error)

	// CharacterExists reports whether a character file exists
	CharacterExists(ctx context.Context, input CharacterExistsInput) (*CharacterExistsOutput, error)

	// PartyExists reports whether the party file exists
	PartyExists(ctx context.Context, input PartyExistsInput) (*PartyExistsOutput, error)

	// DeleteCharacter removes a character file
	// Returns errors.NotFound if the file doesn't exist
	DeleteCharacter(ctx context.Context, input DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// CreateExampleCharacter writes the reference example character to disk
	// and returns its filename. This is the documented recovery path when
	// no character files exist yet.
	CreateExampleCharacter(ctx context.Context, input CreateExampleCharacterInput) (*CreateExampleCharacterOutput, error)
}

// LoadCharacterInput defines the input for loading a character
type LoadCharacterInput struct {
	Filename string
}

// LoadCharacterOutput defines the output for loading a character
type LoadCharacterOutput struct {
	Character *dnd5e.Character
}

// SaveCharacterInput defines the input for saving a character. Filename is
// optional; it defaults to the snake-cased character name.
type SaveCharacterInput struct {
	Character *dnd5e.Character
	Filename  string
}

// SaveCharacterOutput defines the output for saving a character
type SaveCharacterOutput struct {
	Filename string
}

// LoadPartyInput defines the input for loading a party. Filename is
// optional; it defaults to DefaultPartyFilename.
type LoadPartyInput struct {
	Filename string
}

// LoadPartyOutput defines the output for loading a party
type LoadPartyOutput struct {
	Party *dnd5e.Party
}

// SavePartyInput defines the input for saving a party
type SavePartyInput struct {
	Party    *dnd5e.Party
	Filename string
}

// SavePartyOutput defines the output for saving a party
type SavePartyOutput struct {
	Filename    string
	MemberFiles []string
}

// ListCharactersInput defines the input for listing character files
type ListCharactersInput struct {
	// PartyFilename is excluded from the listing; defaults to
	// DefaultPartyFilename
	PartyFilename string
}

// ListCharactersOutput defines the output for listing character files
type ListCharactersOutput struct {
	Filenames []string
}

// CharacterExistsInput defines the input for checking a character file
type CharacterExistsInput struct {
	Filename string
}

// CharacterExistsOutput defines the output for checking a character file
type CharacterExistsOutput struct {
	Exists bool
}

// PartyExistsInput defines the input for checking the party file
type PartyExistsInput struct {
	Filename string
}

// PartyExistsOutput defines the output for checking the party file
type PartyExistsOutput struct {
	Exists bool
}

// DeleteCharacterInput defines the input for deleting a character file
type DeleteCharacterInput struct {
	Filename string
}

// DeleteCharacterOutput defines the output for deleting a character file
type DeleteCharacterOutput struct{}

// CreateExampleCharacterInput defines the input for creating the example
// character. Name is the base filename without extension; defaults to
// "example_character".
type CreateExampleCharacterInput struct {
	Name string
}

// CreateExampleCharacterOutput defines the output for creating the example
// character
type CreateExampleCharacterOutput struct {
	Filename  string
	Character *dnd5e.Character
}
