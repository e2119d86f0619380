package storage

import (
	"net/http"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/gorilla/sessions"
)

const (
	localCookieName   = "artisanhub_local"
	sessionCookieName = "artisanhub_session"
	localMaxAge       = 30 * 24 * 60 * 60
)

// CookieFactory hands out request-bound stores backed by signed cookies
type CookieFactory struct {
	store *sessions.CookieStore
}

func NewCookieFactory(secret string, secure bool) *CookieFactory {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return &CookieFactory{store: store}
}

// ForRequest returns a store for one request/response pair, or Noop when either is missing
func (f *CookieFactory) ForRequest(w http.ResponseWriter, r *http.Request, scope Scope) Store {
	if f == nil || w == nil || r == nil {
		return Noop{}
	}
	name := localCookieName
	if scope == ScopeSession {
		name = sessionCookieName
	}
	return &cookieStore{factory: f, w: w, r: r, name: name, scope: scope}
}

type cookieStore struct {
	factory *CookieFactory
	w       http.ResponseWriter
	r       *http.Request
	name    string
	scope   Scope
	session *sessions.Session
}

func (s *cookieStore) load() *sessions.Session {
	if s.session != nil {
		return s.session
	}
	// A tampered or expired cookie still yields a usable empty session
	sess, err := s.factory.store.Get(s.r, s.name)
	if err != nil {
		logger.Warn("Discarding unreadable storage cookie", logger.Fields{
			"cookie": s.name,
			"error":  err.Error(),
		})
	}
	if sess == nil {
		sess = sessions.NewSession(s.factory.store, s.name)
	}

	opts := *s.factory.store.Options
	if s.scope == ScopeSession {
		opts.MaxAge = 0
	} else {
		opts.MaxAge = localMaxAge
	}
	sess.Options = &opts
	s.session = sess
	return sess
}

func (s *cookieStore) Get(key string) (string, bool) {
	v, ok := s.load().Values[key].(string)
	return v, ok
}

func (s *cookieStore) Set(key, value string) {
	sess := s.load()
	sess.Values[key] = value
	s.save(sess, key)
}

func (s *cookieStore) Remove(key string) {
	sess := s.load()
	delete(sess.Values, key)
	s.save(sess, key)
}

func (s *cookieStore) save(sess *sessions.Session, key string) {
	if err := sess.Save(s.r, s.w); err != nil {
		logger.Warn("Failed to persist storage cookie", logger.Fields{
			"cookie": s.name,
			"key":    key,
			"scope":  s.scope.String(),
			"error":  err.Error(),
		})
	}
}
