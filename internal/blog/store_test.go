package blog_test

import (
	"testing"
	"time"

	"MiniAdmin/internal/blog"
)

func TestStore_FallbackResolution(t *testing.T) {
	s := blog.NewStore(true)
	s.Insert(blog.Post{ID: "7", Title: "t", Author: "a", Content: "c", CreatedAt: time.Now()})

	p, ok := s.FindByID("507f1f77bcf86cd799439017")
	if !ok || p.ID != "7" {
		t.Fatalf("fallback lookup: ok=%v id=%q", ok, p.ID)
	}

	if _, ok := s.FindByID("507f1f77bcf86cd799439018"); ok {
		t.Fatal("matched a missing short id")
	}
}

func TestStore_UpdateStampsAndMerges(t *testing.T) {
	s := blog.NewStore(false)
	s.Insert(blog.Post{ID: "1", Title: "old", Author: "a", Content: "c", CreatedAt: time.Now()})

	title := "new"
	p, ok := s.Update("1", blog.Patch{Title: &title})
	if !ok {
		t.Fatal("update missed")
	}
	if p.Title != "new" || p.Author != "a" || p.Content != "c" {
		t.Fatalf("merged = %+v", p)
	}
	if p.UpdatedAt == nil {
		t.Fatal("updatedAt not stamped")
	}
}

func TestStore_RemoveKeepsOrder(t *testing.T) {
	s := blog.NewStore(false)
	for _, id := range []string{"1", "2", "3"} {
		s.Insert(blog.Post{ID: id, Title: "t", Author: "a", Content: "c", CreatedAt: time.Now()})
	}

	if _, ok := s.Remove("2"); !ok {
		t.Fatal("remove missed")
	}

	got := s.List()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("remaining: %+v", got)
	}
}
