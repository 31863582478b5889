package views

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/inkpress"
)

// AdminLogin renders the password prompt.
func (v *defaultViews) AdminLogin(showError bool, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminShell(buf, "Login", func(buf *bytes.Buffer) {
			buf.WriteString("<h1>Admin</h1>\n")
			if showError {
				buf.WriteString("<p class=\"issue\">Wrong password.</p>\n")
			}
			buf.WriteString("<form method=\"POST\" action=\"/admin/login/\">\n")
			csrfField(buf, csrfToken)
			buf.WriteString("<label for=\"password\">Password</label>\n")
			buf.WriteString("<input type=\"password\" id=\"password\" name=\"password\" autofocus>\n")
			buf.WriteString("<button type=\"submit\">Log in</button>\n")
			buf.WriteString("</form>\n")
		})
	})
}

// AdminDashboard renders the post table, content issues, and an empty
// editor form. Issues are load failures from the content directory; the
// dashboard shows them so a bad file is visible without tailing logs.
func (v *defaultViews) AdminDashboard(posts []inkpress.Post, issues []inkpress.FileError, message string, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminShell(buf, "Dashboard", func(buf *bytes.Buffer) {
			buf.WriteString("<h1>Posts</h1>\n")
			buf.WriteString("<p><a href=\"/admin/images/\">Images</a> &middot; <a href=\"/admin/analytics/\">Analytics</a></p>\n")
			buf.WriteString("<form method=\"POST\" action=\"/admin/logout/\" class=\"logout\">\n")
			csrfField(buf, csrfToken)
			buf.WriteString("<button type=\"submit\">Log out</button>\n")
			buf.WriteString("</form>\n")

			if message != "" {
				fmt.Fprintf(buf, "<p class=\"msg\">%s</p>\n", esc(message))
			}

			if len(issues) > 0 {
				buf.WriteString("<h2>Content issues</h2>\n<ul>\n")
				for _, issue := range issues {
					fmt.Fprintf(buf, "<li class=\"issue\">%s: %s</li>\n", esc(issue.Path), esc(issue.Err.Error()))
				}
				buf.WriteString("</ul>\n")
			}

			buf.WriteString("<table>\n<thead><tr><th>Title</th><th>Date</th><th>Tags</th><th></th></tr></thead>\n<tbody>\n")
			for _, p := range posts {
				class := ""
				if p.Draft {
					class = " class=\"draft\""
				}
				fmt.Fprintf(buf, "<tr%s>\n", class)
				fmt.Fprintf(buf, "<td><a href=\"#post-form\" data-edit-slug=\"%s\">%s</a></td>\n", esc(p.Slug), esc(p.Title))
				fmt.Fprintf(buf, "<td>%s</td>\n", esc(p.DisplayDate()))
				fmt.Fprintf(buf, "<td>%s</td>\n", esc(inkpress.JoinTags(p.Tags)))
				fmt.Fprintf(buf, "<td><button type=\"button\" data-delete-slug=\"%s\">Delete</button></td>\n", esc(p.Slug))
				buf.WriteString("</tr>\n")
			}
			buf.WriteString("</tbody>\n</table>\n")

			buf.WriteString("<div id=\"post-form\">\n")
			v.adminForm(buf, inkpress.Post{}, csrfToken)
			buf.WriteString("</div>\n")
		})
	})
}

// AdminFormPartial renders the editor form pre-filled with a post, for
// swapping into the #editor region.
func (v *defaultViews) AdminFormPartial(post inkpress.Post, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminForm(buf, post, csrfToken)
	})
}

// AdminImages renders the upload form and the image inventory.
func (v *defaultViews) AdminImages(images []inkpress.Image, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		v.adminShell(buf, "Images", func(buf *bytes.Buffer) {
			buf.WriteString("<h1>Images</h1>\n")
			buf.WriteString("<p><a href=\"/admin/\">Back to posts</a></p>\n")

			buf.WriteString("<form method=\"POST\" action=\"/admin/images/upload/\" enctype=\"multipart/form-data\">\n")
			csrfField(buf, csrfToken)
			buf.WriteString("<input type=\"file\" name=\"image\" accept=\"image/*\">\n")
			buf.WriteString("<button type=\"submit\">Upload</button>\n")
			buf.WriteString("</form>\n")

			buf.WriteString("<table>\n<thead><tr><th>Preview</th><th>Filename</th><th>Dimensions</th><th></th></tr></thead>\n<tbody>\n")
			for _, img := range images {
				buf.WriteString("<tr>\n")
				fmt.Fprintf(buf, "<td><img src=\"/public/uploads/%s\" alt=\"\" width=\"80\"></td>\n", esc(img.Filename))
				fmt.Fprintf(buf, "<td><code>/public/uploads/%s</code></td>\n", esc(img.Filename))
				fmt.Fprintf(buf, "<td>%d&times;%d</td>\n", img.Width, img.Height)
				fmt.Fprintf(buf, "<td><button type=\"button\" data-delete-image=\"%s\">Delete</button></td>\n", esc(img.Filename))
				buf.WriteString("</tr>\n")
			}
			buf.WriteString("</tbody>\n</table>\n")
		})
	})
}

// adminShell is the stripped-down layout for admin pages: no public
// header or SEO tags, just the admin assets.
func (v *defaultViews) adminShell(buf *bytes.Buffer, title string, body func(*bytes.Buffer)) {
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	buf.WriteString("<meta name=\"robots\" content=\"noindex\">\n")
	fmt.Fprintf(buf, "<title>%s - %s</title>\n", esc(title), esc(v.cfg.Name))
	buf.WriteString("<link rel=\"stylesheet\" href=\"/public/admin.css\">\n")
	buf.WriteString("</head>\n<body>\n<div class=\"admin\">\n")
	body(buf)
	buf.WriteString("</div>\n<script src=\"/public/admin.js\"></script>\n</body>\n</html>\n")
}

func (v *defaultViews) adminForm(buf *bytes.Buffer, post inkpress.Post, csrfToken string) {
	buf.WriteString("<form method=\"POST\" action=\"/admin/save/\">\n")
	csrfField(buf, csrfToken)
	fmt.Fprintf(buf, "<input type=\"hidden\" name=\"original_slug\" value=\"%s\">\n", esc(post.Slug))

	buf.WriteString("<label for=\"title\">Title</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"title\" name=\"title\" value=\"%s\" required>\n", esc(post.Title))

	buf.WriteString("<label for=\"slug\">Slug</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"slug\" name=\"slug\" value=\"%s\">\n", esc(post.Slug))

	dateVal := ""
	if !post.Date.IsZero() {
		dateVal = post.Date.Format("2006-01-02")
	}
	buf.WriteString("<label for=\"date\">Date</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"date\" name=\"date\" value=\"%s\" placeholder=\"YYYY-MM-DD\" required>\n", esc(dateVal))

	buf.WriteString("<label for=\"tags\">Tags</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"tags\" name=\"tags\" value=\"%s\" placeholder=\"go, web\">\n", esc(inkpress.JoinTags(post.Tags)))

	buf.WriteString("<label for=\"author\">Author</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"author\" name=\"author\" value=\"%s\">\n", esc(post.Author))

	buf.WriteString("<label for=\"description\">Description</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"description\" name=\"description\" value=\"%s\">\n", esc(post.Description))

	coverImage, coverAlt, coverCaption := "", "", ""
	if post.Cover != nil {
		coverImage = post.Cover.Image
		coverAlt = post.Cover.Alt
		coverCaption = post.Cover.Caption
	}
	buf.WriteString("<label for=\"cover_image\">Cover image</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"cover_image\" name=\"cover_image\" value=\"%s\" placeholder=\"/public/uploads/cover.jpg\">\n", esc(coverImage))
	buf.WriteString("<label for=\"cover_alt\">Cover alt text</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"cover_alt\" name=\"cover_alt\" value=\"%s\">\n", esc(coverAlt))
	buf.WriteString("<label for=\"cover_caption\">Cover caption</label>\n")
	fmt.Fprintf(buf, "<input type=\"text\" id=\"cover_caption\" name=\"cover_caption\" value=\"%s\">\n", esc(coverCaption))

	checkbox(buf, "published", "Published", post.Slug != "" && !post.Draft)
	checkbox(buf, "showtoc", "Show table of contents", post.ShowToc)
	checkbox(buf, "tocopen", "Expand table of contents", post.TocOpen)

	buf.WriteString("<label for=\"content\">Content</label>\n")
	fmt.Fprintf(buf, "<textarea id=\"content\" name=\"content\">%s</textarea>\n", esc(post.Body))

	buf.WriteString("<button type=\"submit\">Save</button>\n")
	buf.WriteString("</form>\n")
}

func checkbox(buf *bytes.Buffer, name, label string, checked bool) {
	attr := ""
	if checked {
		attr = " checked"
	}
	fmt.Fprintf(buf, "<label><input type=\"checkbox\" name=\"%s\" value=\"1\"%s> %s</label>\n", name, attr, label)
}

func csrfField(buf *bytes.Buffer, token string) {
	fmt.Fprintf(buf, "<input type=\"hidden\" name=\"_csrf\" value=\"%s\">\n", esc(token))
}
