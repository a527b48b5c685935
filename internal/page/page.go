// Package page renders the slideshow HTML, either wired to the live
// server or fully self-contained with inlined assets.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/slideshow/internal/gallery"
	"github.com/ziadkadry99/slideshow/internal/player"
)

// Mode selects how the page drives the player.
type Mode string

const (
	ModeServed     Mode = "served"     // state lives on the server, events over a websocket
	ModeStandalone Mode = "standalone" // state machine runs in the browser
)

// Level is the severity of a message page.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Image is one entry of the client-side image list.
type Image struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Script is marshalled into the page script as the cfg object.
type Script struct {
	Mode            Mode              `json:"mode"`
	PeriodMS        int64             `json:"periodMs"`
	SoundEnabled    bool              `json:"soundEnabled"`
	RequireStart    bool              `json:"requireStart"`
	DownloadOnPause bool              `json:"downloadOnPause"`
	Socket          string            `json:"socket,omitempty"`
	Session         string            `json:"session,omitempty"`
	Images          []Image           `json:"images"`
	Sounds          map[string]string `json:"sounds,omitempty"`
}

// Data is everything a player page needs.
type Data struct {
	Title  string
	Height int
	Intro  template.HTML
	Script Script
}

type messageData struct {
	Title   string
	Height  int
	Intro   template.HTML
	Level   Level
	Message string
}

// Renderer executes the page templates and minifies the result.
type Renderer struct {
	player   *template.Template
	message  *template.Template
	md       goldmark.Markdown
	minifier *minify.M
}

// NewRenderer parses the templates.
func NewRenderer() (*Renderer, error) {
	playerTmpl, err := template.New("player").Parse(layoutTemplate + playerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing player template: %w", err)
	}
	messageTmpl, err := template.New("message").Parse(layoutTemplate + messageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing message template: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)

	return &Renderer{
		player:  playerTmpl,
		message: messageTmpl,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		minifier: m,
	}, nil
}

// Player writes a player page.
func (r *Renderer) Player(w io.Writer, data Data) error {
	if len(data.Script.Images) == 0 {
		return player.ErrEmptyGallery
	}
	return r.execute(w, r.player, data)
}

// Message writes a page that only shows a static notice.
func (r *Renderer) Message(w io.Writer, title string, height int, level Level, message string) error {
	return r.execute(w, r.message, messageData{
		Title:   title,
		Height:  height,
		Level:   level,
		Message: message,
	})
}

// Intro renders a markdown file to HTML. An empty path yields no intro.
func (r *Renderer) Intro(path string) (template.HTML, error) {
	if path == "" {
		return "", nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading intro %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("rendering intro %s: %w", path, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) execute(w io.Writer, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	var out bytes.Buffer
	if err := r.minifier.Minify("text/html", &out, &buf); err != nil {
		// Unminified output is still a valid page.
		_, err = w.Write(buf.Bytes())
		return err
	}
	_, err := w.Write(out.Bytes())
	return err
}

// LoadMessage maps a gallery load error to the notice shown instead of the
// player. ok is false when err says nothing about the gallery contents.
func LoadMessage(err error) (level Level, message string, ok bool) {
	switch {
	case errors.Is(err, gallery.ErrMissingDirectory):
		return LevelError, "Image or sound folder not found.", true
	case errors.Is(err, gallery.ErrNoMatchingAssets):
		return LevelWarning, "There are no images to display.", true
	}
	return LevelError, "Could not load the gallery.", false
}

// NewScript fills the options part of a Script.
func NewScript(mode Mode, opts player.Options) Script {
	return Script{
		Mode:            mode,
		PeriodMS:        opts.TickPeriod.Milliseconds(),
		SoundEnabled:    opts.SoundEnabled,
		RequireStart:    opts.RequireStartAction,
		DownloadOnPause: opts.DownloadOnPause,
	}
}

// InlineImages returns the gallery as data URI images.
func InlineImages(g *gallery.Gallery) []Image {
	images := make([]Image, g.Len())
	for i, a := range g.Assets {
		images[i] = Image{Name: a.Name, URL: a.DataURI()}
	}
	return images
}

// InlineSounds returns the available effects as data URIs, keyed by the
// short effect names.
func InlineSounds(s *gallery.Sounds) map[string]string {
	if s.Empty() {
		return nil
	}
	out := map[string]string{}
	for _, name := range []string{"bgm", "click", "download"} {
		if a := s.ByName(name); a != nil {
			out[name] = a.DataURI()
		}
	}
	return out
}
