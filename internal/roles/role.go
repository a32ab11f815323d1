package roles

import (
	"context"
	"encoding/json"
	"fmt"
)

// Answer is a role's reply: the output text plus the raw upstream
// response for logging and debugging.
type Answer struct {
	Result string          `json:"result"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

// Asker is the contract every chat role satisfies. vars fill the
// role's instruction placeholders; history is the conversation so far,
// message is the newest user turn (empty to just continue).
type Asker interface {
	Ask(ctx context.Context, message string, vars map[string]string, history []Message) (*Answer, error)
}

// Role binds a named persona to instructions and a model.
type Role struct {
	Name         string
	Model        string // empty uses the client default
	Instructions string
	client       *Client
}

// Ask fills the instruction template with vars and sends history plus
// the new message to the model.
func (r *Role) Ask(ctx context.Context, message string, vars map[string]string, history []Message) (*Answer, error) {
	instructions := Fill(r.Instructions, vars)

	input := make([]Message, 0, len(history)+1)
	input = append(input, history...)
	if message != "" {
		input = append(input, Message{Role: "user", Content: message})
	}

	text, raw, err := r.client.Respond(ctx, r.Model, instructions, input)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", r.Name, err)
	}
	return &Answer{Result: text, Raw: raw}, nil
}

// Role names understood by the registry.
const (
	RoleStudent  = "student"
	RoleCoach    = "coach"
	RoleJudge    = "judge"
	RoleDirector = "director"
)

// Registry holds the configured roles by name.
type Registry struct {
	roles map[string]Asker
}

// NewRegistry builds the standard four roles over one client.
func NewRegistry(client *Client) *Registry {
	r := &Registry{roles: make(map[string]Asker)}
	for name, instructions := range defaultInstructions {
		r.roles[name] = &Role{Name: name, Instructions: instructions, client: client}
	}
	return r
}

// Register replaces or adds a role. Tests use this to install fakes.
func (r *Registry) Register(name string, a Asker) {
	r.roles[name] = a
}

// Get returns the named role.
func (r *Registry) Get(name string) (Asker, error) {
	a, ok := r.roles[name]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", name)
	}
	return a, nil
}
