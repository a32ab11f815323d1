package roles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResponses serves the /v1/responses endpoint, replaying canned
// status codes before settling on a success payload.
type fakeResponses struct {
	t        *testing.T
	statuses []int // drained one per request, then 200
	text     string
	calls    atomic.Int32
	lastReq  responsesRequest
	lastAuth string
}

func (f *fakeResponses) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(f.calls.Add(1))

		if r.URL.Path != "/v1/responses" {
			f.t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(404)
			return
		}
		f.lastAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&f.lastReq); err != nil {
			f.t.Errorf("bad request body: %v", err)
		}

		if n <= len(f.statuses) {
			w.WriteHeader(f.statuses[n-1])
			w.Write([]byte(`{"error":{"message":"try later"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":     "resp_1",
			"status": "completed",
			"output": []map[string]any{{
				"type": "message",
				"content": []map[string]any{
					{"type": "output_text", "text": f.text},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})
}

func newTestClient(t *testing.T, fake *fakeResponses) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	})
}

func TestClient_Respond(t *testing.T) {
	fake := &fakeResponses{t: t, text: "hello there"}
	client := newTestClient(t, fake)

	text, raw, err := client.Respond(context.Background(), "", "be brief", []Message{
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", text)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "Bearer test-key", fake.lastAuth)
	assert.Equal(t, "test-model", fake.lastReq.Model, "empty model falls back to the client default")
	assert.Equal(t, "be brief", fake.lastReq.Instructions)
	require.Len(t, fake.lastReq.Input, 1)
	assert.Equal(t, "hi", fake.lastReq.Input[0].Content)
}

func TestClient_RespondRetriesTransient(t *testing.T) {
	fake := &fakeResponses{t: t, text: "ok", statuses: []int{503, 429}}
	client := newTestClient(t, fake)

	text, _, err := client.Respond(context.Background(), "m", "", []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, "ok", text)
	assert.EqualValues(t, 3, fake.calls.Load())
}

func TestClient_RespondExhaustsRetries(t *testing.T) {
	fake := &fakeResponses{t: t, statuses: []int{500, 500, 500, 500}}
	client := newTestClient(t, fake)

	_, _, err := client.Respond(context.Background(), "m", "", nil)
	require.ErrorIs(t, err, ErrRetryExhausted)
	assert.EqualValues(t, 3, fake.calls.Load(), "default is one call plus two retries")
}

func TestClient_RespondNegativeRetriesDisable(t *testing.T) {
	fake := &fakeResponses{t: t, statuses: []int{500, 500}}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		MaxRetries: -1,
	})

	_, _, err := client.Respond(context.Background(), "m", "", nil)
	require.ErrorIs(t, err, ErrRetryExhausted)
	assert.EqualValues(t, 1, fake.calls.Load(), "negative MaxRetries means a single attempt")
}

func TestClient_RespondDoesNotRetryClientErrors(t *testing.T) {
	fake := &fakeResponses{t: t, statuses: []int{400}}
	client := newTestClient(t, fake)

	_, _, err := client.Respond(context.Background(), "m", "", nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestClient_RespondEmptyOutput(t *testing.T) {
	fake := &fakeResponses{t: t, text: ""}
	client := newTestClient(t, fake)

	_, _, err := client.Respond(context.Background(), "m", "", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, ErrEmptyOutput.Error())
	assert.EqualValues(t, 1, fake.calls.Load(), "empty output is not retryable")
}

func TestRegistry(t *testing.T) {
	fake := &fakeResponses{t: t, text: "advice"}
	client := newTestClient(t, fake)
	registry := NewRegistry(client)

	for _, name := range []string{RoleStudent, RoleCoach, RoleJudge, RoleDirector} {
		_, err := registry.Get(name)
		assert.NoError(t, err, name)
	}
	_, err := registry.Get("narrator")
	assert.Error(t, err)

	coach, err := registry.Get(RoleCoach)
	require.NoError(t, err)

	answer, err := coach.Ask(context.Background(), "how am I doing?",
		map[string]string{"background_info": "guitar teacher, 5 years"},
		[]Message{{Role: "user", Content: "hello"}, {Role: "assistant", Content: "hi!"}})
	require.NoError(t, err)

	assert.Equal(t, "advice", answer.Result)
	assert.Contains(t, fake.lastReq.Instructions, "guitar teacher, 5 years",
		"placeholders are filled from vars")
	require.Len(t, fake.lastReq.Input, 3, "history plus the new message")
	assert.Equal(t, "how am I doing?", fake.lastReq.Input[2].Content)
}
