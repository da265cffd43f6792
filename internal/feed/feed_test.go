package feed

import (
	"context"
	"testing"
	"time"
)

func newTestStore() *Store {
	s := NewStore()
	s.AddPost(Post{ID: "p1", Title: "first", Votes: 10, CreatedAt: time.Date(2025, 7, 30, 12, 0, 0, 0, time.UTC)})
	s.AddPost(Post{ID: "p2", Title: "second", Votes: 5, CreatedAt: time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC)})
	s.AddCommunity(Community{ID: "c1", Name: "Student Budgeting", Members: 100})
	return s
}

func TestUpvoteToggle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	p, err := s.Upvote(ctx, "p1")
	if err != nil {
		t.Fatalf("Upvote() error: %v", err)
	}
	if p.Votes != 11 || !p.Upvoted || p.Downvoted {
		t.Errorf("after upvote: votes=%d upvoted=%v downvoted=%v", p.Votes, p.Upvoted, p.Downvoted)
	}

	// Second upvote removes it.
	p, err = s.Upvote(ctx, "p1")
	if err != nil {
		t.Fatalf("Upvote() error: %v", err)
	}
	if p.Votes != 10 || p.Upvoted {
		t.Errorf("after toggle off: votes=%d upvoted=%v", p.Votes, p.Upvoted)
	}
}

func TestDownvoteToggle(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	p, err := s.Downvote(ctx, "p1")
	if err != nil {
		t.Fatalf("Downvote() error: %v", err)
	}
	if p.Votes != 9 || !p.Downvoted || p.Upvoted {
		t.Errorf("after downvote: votes=%d upvoted=%v downvoted=%v", p.Votes, p.Upvoted, p.Downvoted)
	}

	p, err = s.Downvote(ctx, "p1")
	if err != nil {
		t.Fatalf("Downvote() error: %v", err)
	}
	if p.Votes != 10 || p.Downvoted {
		t.Errorf("after toggle off: votes=%d downvoted=%v", p.Votes, p.Downvoted)
	}
}

func TestVoteSwitchMovesScoreByTwo(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	if _, err := s.Upvote(ctx, "p1"); err != nil {
		t.Fatalf("Upvote() error: %v", err)
	}
	p, err := s.Downvote(ctx, "p1")
	if err != nil {
		t.Fatalf("Downvote() error: %v", err)
	}
	if p.Votes != 9 || p.Upvoted || !p.Downvoted {
		t.Errorf("after switch down: votes=%d upvoted=%v downvoted=%v", p.Votes, p.Upvoted, p.Downvoted)
	}

	p, err = s.Upvote(ctx, "p1")
	if err != nil {
		t.Fatalf("Upvote() error: %v", err)
	}
	if p.Votes != 11 || !p.Upvoted || p.Downvoted {
		t.Errorf("after switch up: votes=%d upvoted=%v downvoted=%v", p.Votes, p.Upvoted, p.Downvoted)
	}
}

func TestVoteUnknownPost(t *testing.T) {
	s := newTestStore()
	if _, err := s.Upvote(context.Background(), "missing"); err != ErrPostNotFound {
		t.Errorf("Upvote(missing) error = %v, want ErrPostNotFound", err)
	}
	if _, err := s.Downvote(context.Background(), "missing"); err != ErrPostNotFound {
		t.Errorf("Downvote(missing) error = %v, want ErrPostNotFound", err)
	}
}

func TestPostsNewestFirst(t *testing.T) {
	s := newTestStore()
	posts := s.Posts(context.Background())
	if len(posts) != 2 {
		t.Fatalf("Posts() = %d, want 2", len(posts))
	}
	if posts[0].ID != "p2" || posts[1].ID != "p1" {
		t.Errorf("order = [%s %s], want [p2 p1]", posts[0].ID, posts[1].ID)
	}
}

func TestToggleMembership(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	c, err := s.ToggleMembership(ctx, "c1")
	if err != nil {
		t.Fatalf("ToggleMembership() error: %v", err)
	}
	if !c.Joined || c.Members != 101 {
		t.Errorf("after join: joined=%v members=%d", c.Joined, c.Members)
	}

	c, err = s.ToggleMembership(ctx, "c1")
	if err != nil {
		t.Fatalf("ToggleMembership() error: %v", err)
	}
	if c.Joined || c.Members != 100 {
		t.Errorf("after leave: joined=%v members=%d", c.Joined, c.Members)
	}

	if _, err := s.ToggleMembership(ctx, "missing"); err != ErrCommunityNotFound {
		t.Errorf("ToggleMembership(missing) error = %v, want ErrCommunityNotFound", err)
	}
}

func TestSeed(t *testing.T) {
	s := NewStore()
	Seed(s, time.Now())

	if got := len(s.Posts(context.Background())); got != 3 {
		t.Errorf("seeded posts = %d, want 3", got)
	}
	if got := len(s.Communities(context.Background())); got != 3 {
		t.Errorf("seeded communities = %d, want 3", got)
	}
}
