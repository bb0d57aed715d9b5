package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/soulart2024-ship-it/Tem/internal/catalog"
)

// DecoderLink is one entry on the temple home page.
type DecoderLink struct {
	Title string
	Slug  string
}

// RitualData carries the rendering state for one stepper view.
type RitualData struct {
	DomainTitle     string
	ItemLabel       string
	Step            int
	StepName        string
	Copy            string
	Completed       bool
	ReplacementWord string
	VibeWords       []string
	NextURL         string
	FormAction      string
	NextStep        int
}

// JournalEntryView is the journal page's view model for one entry.
type JournalEntryView struct {
	Title     string
	Content   string
	Mood      string
	Tags      string
	CreatedAt string
}

func page(title string, body func(w io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, "<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>%s</title></head><body>", html.EscapeString(title))
		fmt.Fprint(w, "<header><a href=\"/\">SoulArt Temple</a></header><main>")
		body(w)
		fmt.Fprint(w, "</main></body></html>")
		return nil
	})
}

// Home renders the temple landing page with one door per decoder.
func Home(decoders []DecoderLink) templ.Component {
	return page("SoulArt Temple", func(w io.Writer) {
		fmt.Fprint(w, "<h1>SoulArt Temple</h1><ul class=\"decoders\">")
		for _, d := range decoders {
			fmt.Fprintf(w, "<li><a href=\"/%s\">%s</a></li>", html.EscapeString(d.Slug), html.EscapeString(d.Title))
		}
		fmt.Fprint(w, "</ul><p><a href=\"/journal\">Sacred Reflections Journal</a></p>")
	})
}

// Decoder renders the two-column catalog for one domain.
func Decoder(p catalog.Page) templ.Component {
	return page(p.Title, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1><div class=\"columns\">", html.EscapeString(p.Title))
		for _, column := range []catalog.Column{p.ColumnA, p.ColumnB} {
			fmt.Fprintf(w, "<div class=\"column\"><h2>%s</h2>", html.EscapeString(column.Title))
			for _, section := range column.Sections {
				fmt.Fprintf(w, "<section class=\"bucket\" style=\"border-color:%s\"><h3>%s</h3><p>%s</p><div class=\"tiles\">",
					html.EscapeString(section.Theme.Color),
					html.EscapeString(section.Theme.Title),
					html.EscapeString(section.Theme.Description))
				for _, tile := range section.Tiles {
					fmt.Fprintf(w, "<a class=\"tile\" style=\"background:%s\" href=\"/%s/ritual?item=%s\">%s",
						html.EscapeString(tile.Color),
						html.EscapeString(p.Domain.Slug()),
						url.QueryEscape(tile.Label),
						html.EscapeString(tile.Label))
					if tile.Frequency > 0 {
						fmt.Fprintf(w, "<span class=\"frequency\">%d Hz</span>", tile.Frequency)
					}
					fmt.Fprint(w, "</a>")
				}
				fmt.Fprint(w, "</div></section>")
			}
			fmt.Fprint(w, "</div>")
		}
		fmt.Fprint(w, "</div>")
	})
}

// SignInPrompt renders the gate view shown to anonymous visitors.
func SignInPrompt(domainTitle string) templ.Component {
	return page(domainTitle, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1><div class=\"gate signin\"><p>Sign in to enter this chamber.</p><a href=\"/api/login\">Sign In</a></div>", html.EscapeString(domainTitle))
	})
}

// UpgradePrompt renders the gate view shown when the free quota is spent.
func UpgradePrompt(domainTitle string, usageCount int) templ.Component {
	return page(domainTitle, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1><div class=\"gate upgrade\"><p>You have completed %d free sessions. Subscribe for unlimited access.</p><a href=\"/subscribe\">Subscribe</a></div>",
			html.EscapeString(domainTitle), usageCount)
	})
}

// RetryPrompt renders the gate view shown on a transient backend failure.
func RetryPrompt(domainTitle string) templ.Component {
	return page(domainTitle, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1><div class=\"gate retry\"><p>The temple doors are stuck. Please try again.</p><a href=\"\">Retry</a></div>", html.EscapeString(domainTitle))
	})
}

// Ritual renders one step of the healing stepper.
func Ritual(data RitualData) templ.Component {
	return page(data.DomainTitle, func(w io.Writer) {
		fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(data.DomainTitle))
		if data.Completed {
			fmt.Fprintf(w, "<div class=\"ritual complete\"><p>%s</p><a href=\"/\">Return to the Temple</a></div>", html.EscapeString(data.Copy))
			return
		}
		fmt.Fprintf(w, "<div class=\"ritual step-%d\"><h2>Step %d: %s</h2><p>%s</p>",
			data.Step, data.Step, html.EscapeString(data.StepName), html.EscapeString(data.Copy))
		if len(data.VibeWords) > 0 {
			// The word choice advances the step itself, so the chosen
			// word travels with the item and step.
			fmt.Fprintf(w, "<form class=\"advance\" method=\"get\" action=\"%s\">", html.EscapeString(data.FormAction))
			fmt.Fprintf(w, "<input type=\"hidden\" name=\"item\" value=\"%s\">", html.EscapeString(data.ItemLabel))
			fmt.Fprintf(w, "<input type=\"hidden\" name=\"step\" value=\"%d\">", data.NextStep)
			fmt.Fprint(w, "<select name=\"word\">")
			for _, word := range data.VibeWords {
				selected := ""
				if word == data.ReplacementWord {
					selected = " selected"
				}
				fmt.Fprintf(w, "<option%s>%s</option>", selected, html.EscapeString(word))
			}
			fmt.Fprint(w, "</select><button type=\"submit\">Continue</button></form></div>")
			return
		}
		fmt.Fprintf(w, "<a class=\"advance\" href=\"%s\">Continue</a></div>", html.EscapeString(data.NextURL))
	})
}

// Journal renders the reflections journal, newest entry first.
func Journal(entries []JournalEntryView) templ.Component {
	return page("Sacred Reflections Journal", func(w io.Writer) {
		fmt.Fprint(w, "<h1>Sacred Reflections Journal</h1>")
		if len(entries) == 0 {
			fmt.Fprint(w, "<p class=\"empty\">Your journal awaits its first reflection.</p>")
			return
		}
		fmt.Fprint(w, "<div class=\"entries\">")
		for _, entry := range entries {
			title := entry.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(w, "<article class=\"entry\"><h2>%s</h2><p class=\"meta\">%s · %s</p><p>%s</p>",
				html.EscapeString(title),
				html.EscapeString(entry.Mood),
				html.EscapeString(entry.CreatedAt),
				html.EscapeString(entry.Content))
			if entry.Tags != "" {
				fmt.Fprintf(w, "<p class=\"tags\">%s</p>", html.EscapeString(entry.Tags))
			}
			fmt.Fprint(w, "</article>")
		}
		fmt.Fprint(w, "</div><p><a href=\"/api/journal/download\">Download Journal</a></p>")
	})
}
