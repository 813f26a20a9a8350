// Package emails shows how an application declares previews for its
// mailers.
package emails

import (
	"fmt"
	"strings"

	"github.com/pthm/mailpreview"
)

// User is the fixture recipient.
type User struct {
	Name  string
	Email string
}

var ada = User{Name: "Ada Lovelace", Email: "ada@example.com"}

// Welcome is sent after sign-up. It only has the simple forms.
type Welcome struct {
	User User
}

func (w Welcome) Preview() (any, error) {
	return mailpreview.Email{
		Subject:  "Welcome to Acme, " + w.User.Name,
		From:     "hello@acme.test",
		To:       []string{w.User.Email},
		HTMLBody: fmt.Sprintf("<h1>Welcome, %s!</h1><p>Thanks for joining.</p>", w.User.Name),
		TextBody: fmt.Sprintf("Welcome, %s!\n\nThanks for joining.", w.User.Name),
	}, nil
}

func (Welcome) PreviewDetails() (mailpreview.Details, error) {
	return mailpreview.Details{
		Title:       "Welcome",
		Description: "Sent right after **sign-up**.",
		Tags:        mailpreview.Tags{{Key: "audience", Value: "customers"}},
	}, nil
}

var greetings = map[string]string{
	"en": "Reset your password",
	"fr": "Réinitialisez votre mot de passe",
	"de": "Setzen Sie Ihr Passwort zurück",
}

// ResetPassword is localized through the "locale" option.
type ResetPassword struct {
	User User
}

func (r ResetPassword) Preview() (any, error) {
	return r.PreviewWith(nil)
}

func (r ResetPassword) PreviewWith(opts mailpreview.Options) (any, error) {
	locale := "en"
	if v, ok := opts.Get("locale"); ok {
		s, _ := v.(string)
		if _, known := greetings[s]; !known {
			return nil, fmt.Errorf("unsupported locale %q", s)
		}
		locale = s
	}
	subject := greetings[locale]
	return mailpreview.Email{
		Subject:  subject,
		From:     "security@acme.test",
		To:       []string{r.User.Email},
		HTMLBody: fmt.Sprintf("<p>%s: <a href=\"https://acme.test/reset/abc\">reset</a></p>", subject),
		TextBody: subject + ": https://acme.test/reset/abc",
		Headers:  map[string]string{"Content-Language": locale},
	}, nil
}

func (ResetPassword) PreviewDetailsWith(opts mailpreview.Options) (mailpreview.Details, error) {
	locale, _ := opts.Get("locale")
	return mailpreview.Details{
		Title: fmt.Sprintf("Reset password (%v)", locale),
		Tags:  mailpreview.Tags{{Key: "locale", Value: fmt.Sprint(locale)}},
	}, nil
}

// Invoice carries an inline PDF and a CSV attachment.
type Invoice struct {
	Number string
	Lines  []string
}

func (i Invoice) Preview() (any, error) {
	csv := "item\n" + strings.Join(i.Lines, "\n") + "\n"
	return mailpreview.Email{
		Subject:  "Invoice " + i.Number,
		From:     "billing@acme.test",
		To:       []string{ada.Email},
		TextBody: fmt.Sprintf("Invoice %s is attached.", i.Number),
		Attachments: []mailpreview.Attachment{
			{Filename: "invoice-" + i.Number + ".pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4\n")},
			{Filename: "lines.csv", ContentType: "text/csv", Data: []byte(csv)},
		},
	}, nil
}

func (i Invoice) PreviewDetails() (mailpreview.Details, error) {
	return mailpreview.Details{Title: "Invoice " + i.Number}, nil
}

// Previews is the application's preview registry.
var Previews = mailpreview.NewBuilder().
	Group("auth", "Authentication", mailpreview.Options{mailpreview.Opt("locale", "en")}, func(b *mailpreview.Builder) {
		b.Preview("reset_password", ResetPassword{User: ada})
		b.Preview("reset_password_fr", ResetPassword{User: ada}, mailpreview.Opt("locale", "fr"))
	}).
	Group("billing", "Billing", nil, func(b *mailpreview.Builder) {
		b.Preview("invoice", Invoice{Number: "2024-001", Lines: []string{"Widget", "Gadget"}})
	}).
	Preview("welcome", Welcome{User: ada}).
	MustBuild()
