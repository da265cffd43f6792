package feed

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrCommunityNotFound = errors.New("community not found")
)

// Post is a community feed entry. Upvoted and Downvoted are mutually
// exclusive; Votes carries the running score.
type Post struct {
	ID        string    `json:"id"`
	Community string    `json:"community"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Votes     int       `json:"votes"`
	Comments  int       `json:"comments"`
	Upvoted   bool      `json:"upvoted"`
	Downvoted bool      `json:"downvoted"`
	CreatedAt time.Time `json:"created_at"`
}

type Community struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Members     int    `json:"members"`
	Joined      bool   `json:"joined"`
}

// Store holds feed state in memory. Single-user semantics: vote and
// membership flags belong to the one app user.
type Store struct {
	mu          sync.RWMutex
	posts       map[string]*Post
	communities map[string]*Community
	postOrder   []string
	commOrder   []string
}

func NewStore() *Store {
	return &Store{
		posts:       make(map[string]*Post),
		communities: make(map[string]*Community),
	}
}

// AddPost registers a post; newest posts list first.
func (s *Store) AddPost(p Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.posts[p.ID]; !exists {
		s.postOrder = append(s.postOrder, p.ID)
	}
	copied := p
	s.posts[p.ID] = &copied
}

func (s *Store) AddCommunity(c Community) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.communities[c.ID]; !exists {
		s.commOrder = append(s.commOrder, c.ID)
	}
	copied := c
	s.communities[c.ID] = &copied
}

// Posts returns all posts, newest first.
func (s *Store) Posts(_ context.Context) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		out = append(out, *s.posts[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) Communities(_ context.Context) []Community {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Community, 0, len(s.commOrder))
	for _, id := range s.commOrder {
		out = append(out, *s.communities[id])
	}
	return out
}

// Upvote toggles the upvote on a post. A second upvote removes it; an
// upvote over a downvote switches sides, moving the score by two.
func (s *Store) Upvote(_ context.Context, id string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	switch {
	case p.Upvoted:
		p.Upvoted = false
		p.Votes--
	case p.Downvoted:
		p.Downvoted = false
		p.Upvoted = true
		p.Votes += 2
	default:
		p.Upvoted = true
		p.Votes++
	}
	return *p, nil
}

// Downvote mirrors Upvote in the other direction.
func (s *Store) Downvote(_ context.Context, id string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	switch {
	case p.Downvoted:
		p.Downvoted = false
		p.Votes++
	case p.Upvoted:
		p.Upvoted = false
		p.Downvoted = true
		p.Votes -= 2
	default:
		p.Downvoted = true
		p.Votes--
	}
	return *p, nil
}

// ToggleMembership joins or leaves a community and adjusts its member
// count.
func (s *Store) ToggleMembership(_ context.Context, id string) (Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[id]
	if !ok {
		return Community{}, ErrCommunityNotFound
	}
	if c.Joined {
		c.Joined = false
		c.Members--
	} else {
		c.Joined = true
		c.Members++
	}
	return *c, nil
}

// Seed loads the default demo content shown before any user activity.
func Seed(s *Store, now time.Time) {
	s.AddCommunity(Community{ID: "student-budgeting", Name: "Student Budgeting", Description: "Tips for stretching a maintenance loan", Members: 12400})
	s.AddCommunity(Community{ID: "first-investments", Name: "First Investments", Description: "Getting started with ISAs and index funds", Members: 8300})
	s.AddCommunity(Community{ID: "side-hustles", Name: "Side Hustles", Description: "Part-time income ideas that fit around lectures", Members: 5100})

	s.AddPost(Post{
		ID:        "post-1",
		Community: "Student Budgeting",
		Author:    "mealprep_maya",
		Title:     "Cut my weekly food spend from £55 to £32",
		Content:   "Batch cooking on Sundays plus a strict shopping list. Happy to share the spreadsheet.",
		Votes:     128,
		Comments:  24,
		CreatedAt: now.Add(-2 * time.Hour),
	})
	s.AddPost(Post{
		ID:        "post-2",
		Community: "First Investments",
		Author:    "index_and_chill",
		Title:     "Is a LISA worth it while studying?",
		Content:   "The 25% bonus looks great but I am worried about locking money away.",
		Votes:     64,
		Comments:  31,
		CreatedAt: now.Add(-5 * time.Hour),
	})
	s.AddPost(Post{
		ID:        "post-3",
		Community: "Side Hustles",
		Author:    "weekend_barista",
		Title:     "Campus jobs that actually pay above minimum wage",
		Content:   "Library shifts and exam invigilation both pay better than bar work here.",
		Votes:     92,
		Comments:  17,
		CreatedAt: now.Add(-26 * time.Hour),
	})
}
