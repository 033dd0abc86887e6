// Package remotetest fakes the backing REST store for tests: an
// in-memory users/posts collection behind the same endpoints the real
// store exposes.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/server-craftsman/manage-post/internal/models"
)

type Server struct {
	mu    sync.Mutex
	users map[string]models.User
	posts map[string]models.Post

	requests []string

	failWith     int
	emptyPutBody bool

	srv *httptest.Server
}

func NewServer() *Server {
	s := &Server{
		users: make(map[string]models.User),
		posts: make(map[string]models.Post),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) URL() string { return s.srv.URL }
func (s *Server) Close()      { s.srv.Close() }

// FailWith makes every subsequent request answer the given status;
// zero restores normal behavior.
func (s *Server) FailWith(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = code
}

// EmptyPutBody makes PUT answer 200 with no body, mimicking the quirky
// mock backend the original ran against.
func (s *Server) EmptyPutBody(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emptyPutBody = on
}

func (s *Server) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Server) AddPost(p models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = p
}

func (s *Server) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Server) Post(id string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	return p, ok
}

// Requests returns every "METHOD /path" seen, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	fail := s.failWith
	s.mu.Unlock()

	if fail != 0 {
		w.WriteHeader(fail)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case parts[0] == "users":
		s.handleUsers(w, r, parts[1:])
	case parts[0] == "posts" && len(parts) >= 2 && parts[1] == "user":
		s.handlePostsByUser(w, parts[2:])
	case parts[0] == "posts":
		s.handlePosts(w, r, parts[1:])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, rest []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list := make([]models.User, 0, len(s.users))
		for _, u := range s.users {
			list = append(list, u)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		json.NewEncoder(w).Encode(list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var u models.User
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.users[u.ID] = u
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(u)

	case len(rest) == 1 && r.Method == http.MethodGet:
		u, ok := s.users[rest[0]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(u)

	case len(rest) == 1 && r.Method == http.MethodPut:
		var u models.User
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, ok := s.users[rest[0]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.users[rest[0]] = u
		json.NewEncoder(w).Encode(u)

	case len(rest) == 1 && r.Method == http.MethodDelete:
		delete(s.users, rest[0])
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request, rest []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list := make([]models.Post, 0, len(s.posts))
		for _, p := range s.posts {
			list = append(list, p)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		json.NewEncoder(w).Encode(list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var p models.Post
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.posts[p.ID] = p
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)

	case len(rest) == 1 && r.Method == http.MethodGet:
		p, ok := s.posts[rest[0]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(p)

	case len(rest) == 1 && r.Method == http.MethodPut:
		var p models.Post
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, ok := s.posts[rest[0]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.posts[rest[0]] = p
		if s.emptyPutBody {
			w.WriteHeader(http.StatusOK)
			return
		}
		json.NewEncoder(w).Encode(p)

	case len(rest) == 1 && r.Method == http.MethodDelete:
		if _, ok := s.posts[rest[0]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(s.posts, rest[0])
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePostsByUser(w http.ResponseWriter, rest []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(rest) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	list := make([]models.Post, 0)
	for _, p := range s.posts {
		if p.UserID == rest[0] {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	json.NewEncoder(w).Encode(list)
}
