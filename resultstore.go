package passquiz

import (
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	ResultCookieName = "quiz_result"
	ResultTTL        = time.Hour

	resultKey = "result"
)

func init() {
	gob.Register(QuizResult{})
}

// ResultStore caches the latest quiz result in a signed client cookie
type ResultStore struct {
	store *sessions.CookieStore
}

// NewResultStore creates a result store signing cookies with hashKey
func NewResultStore(hashKey []byte, secure bool) *ResultStore {
	store := sessions.NewCookieStore(hashKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(ResultTTL / time.Second))

	return &ResultStore{store: store}
}

// Load returns the cached result, or nil when there is none or it fails verification
func (rs *ResultStore) Load(r *http.Request) *QuizResult {
	session, err := rs.store.Get(r, ResultCookieName)
	if err != nil {
		VerboseLog("Discarding unreadable result cookie: %v", err)
		return nil
	}

	result, ok := session.Values[resultKey].(QuizResult)
	if !ok {
		return nil
	}
	return &result
}

// Save writes result to the result cookie
func (rs *ResultStore) Save(w http.ResponseWriter, r *http.Request, result QuizResult) error {
	session, _ := rs.store.Get(r, ResultCookieName)
	session.Values[resultKey] = result
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save result cookie: %w", err)
	}
	return nil
}

// Clear removes the result cookie
func (rs *ResultStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := rs.store.Get(r, ResultCookieName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear result cookie: %w", err)
	}
	return nil
}
