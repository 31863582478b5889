package inkpress

import (
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/inkpress/frontmatter"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	mk := func(title, slug, date string, tags []string, draft bool) Post {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			t.Fatalf("parse date: %v", err)
		}
		return Post{
			Meta: frontmatter.Meta{
				Title:       title,
				Date:        d,
				Tags:        tags,
				Description: "about " + title,
				Draft:       draft,
				ShowToc:     true,
			},
			Slug: slug,
			Path: slug + ".md",
			Body: "## Heading\n\nSome body text for " + title + ".\n",
			Link: "/blog/" + slug + "/",
		}
	}
	return &Library{Posts: []Post{
		mk("Newest", "newest", "2024-06-01", []string{"go", "web"}, false),
		mk("Older", "older", "2024-03-01", []string{"go"}, false),
		mk("Hidden", "hidden", "2024-05-01", []string{"secret"}, true),
	}}
}

func TestReindexAndList(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Reindex(testLibrary(t)); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListPosts = %d posts, want 2 published", len(posts))
	}
	if posts[0].Slug != "newest" || posts[1].Slug != "older" {
		t.Errorf("order = [%s %s], want newest first", posts[0].Slug, posts[1].Slug)
	}

	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAllPosts = %d posts, want 3 including the draft", len(all))
	}
}

func TestListPostsByTag(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Reindex(testLibrary(t)); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	posts, err := s.ListPosts("go")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListPosts(go) = %d, want 2", len(posts))
	}

	posts, err = s.ListPosts("web")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "newest" {
		t.Errorf("ListPosts(web) = %v, want only newest", posts)
	}

	posts, err = s.ListPosts("secret")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("draft tags must not surface: %v", posts)
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Reindex(testLibrary(t)); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	want := []string{"go", "web"}
	if len(tags) != len(want) {
		t.Fatalf("ListTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("ListTags = %v, want %v", tags, want)
		}
	}
}

func TestGetPostRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Reindex(testLibrary(t)); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	got, err := s.GetPost("newest")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Newest" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Description != "about Newest" {
		t.Errorf("Description = %q", got.Description)
	}
	if !got.ShowToc {
		t.Error("ShowToc flag lost in the index round trip")
	}
	if got.Link != "/blog/newest/" {
		t.Errorf("Link = %q", got.Link)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", got.Tags)
	}
	if got.WordCount == 0 || got.ReadingTime == 0 {
		t.Error("derived stats should be rebuilt on read")
	}

	if _, err := s.GetPost("hidden"); err != ErrNotFound {
		t.Errorf("GetPost(draft) err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetPostAny("hidden"); err != nil {
		t.Errorf("GetPostAny(draft) err = %v, want nil", err)
	}
	if _, err := s.GetPost("nope"); err != ErrNotFound {
		t.Errorf("GetPost(missing) err = %v, want ErrNotFound", err)
	}
}

func TestReindexReplacesIndex(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Reindex(testLibrary(t)); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	lib := testLibrary(t)
	lib.Posts = lib.Posts[:1]
	if err := s.Reindex(lib); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("index should mirror the library exactly, got %d posts", len(all))
	}
}

func TestEncodeDecodeTags(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, ","},
		{[]string{"go"}, ",go,"},
		{[]string{"go", "web"}, ",go,web,"},
		{[]string{" Go ", ""}, ",go,"},
	}
	for _, tt := range tests {
		got := encodeTags(tt.tags)
		if got != tt.want {
			t.Errorf("encodeTags(%v) = %q, want %q", tt.tags, got, tt.want)
		}
	}

	decoded := decodeTags(",go,web,")
	if len(decoded) != 2 || decoded[0] != "go" || decoded[1] != "web" {
		t.Errorf("decodeTags = %v, want [go web]", decoded)
	}
	if got := decodeTags(""); len(got) != 0 {
		t.Errorf("decodeTags(\"\") = %v, want empty", got)
	}
}

func TestImageInventory(t *testing.T) {
	s := setupTestStore(t)

	img := Image{
		Filename:     "hero.jpg",
		OriginalName: "Hero Shot.png",
		Width:        1200,
		Height:       800,
		Size:         123456,
		UploadedAt:   "2024-01-15T10:00:00Z",
	}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}

	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 1 || images[0].Filename != "hero.jpg" || images[0].Width != 1200 {
		t.Fatalf("ListImages = %v", images)
	}

	if err := s.DeleteImage("hero.jpg"); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	images, err = s.ListImages()
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("image not deleted: %v", images)
	}
}
