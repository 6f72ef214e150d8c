package roster

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for assembly errors. Callers match with errors.Is.
var (
	ErrIncompleteTeam = errors.New("incomplete team")
	ErrAmbiguousName  = errors.New("ambiguous player name")
	ErrWrongNameCount = errors.New("wrong number of player names")
)

// AmbiguousNameError reports an input name whose substring fallback
// matched more than one pool player.
type AmbiguousNameError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("ambiguous player name %q: matches %s", e.Name, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousNameError) Unwrap() error { return ErrAmbiguousName }

// IncompleteTeamError reports an assembly that resolved fewer than the
// required number of affordable, distinct players.
type IncompleteTeamError struct {
	Resolved int
	Required int
	// Missing lists the input names that could not be placed, with the
	// closest pool-player name where one is close enough to suggest.
	Missing     []string
	Suggestions map[string]string
}

func (e *IncompleteTeamError) Error() string {
	return fmt.Sprintf("incomplete team: resolved %d of %d players (missing: %s)",
		e.Resolved, e.Required, strings.Join(e.Missing, ", "))
}

func (e *IncompleteTeamError) Unwrap() error { return ErrIncompleteTeam }
