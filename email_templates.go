package authgate

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

var verifyEmailTmpl = template.Must(template.New("verify_email").Parse(`<html>
<body>
	<p>Hi {{.Name}},</p>
	<p>Confirm your email address to activate your account. The link is valid
	for 15 minutes.</p>
	<p><a href="{{.Link}}">Verify my account</a></p>
	<p>If you did not create an account, you can ignore this email.</p>
</body>
</html>`))

var resetEmailTmpl = template.Must(template.New("reset_email").Parse(`<html>
<body>
	<p>Hi {{.Name}},</p>
	<p>We received a request to reset your password. The link is valid for
	15 minutes.</p>
	<p><a href="{{.Link}}">Reset my password</a></p>
	<p>If you did not request a reset, you can ignore this email.</p>
</body>
</html>`))

type emailContext struct {
	Name string
	Link string
}

func renderEmail(tmpl *template.Template, name, link string) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, emailContext{Name: name, Link: link}); err != nil {
		// Templates are compile-time constants, Execute only fails on a
		// broken writer.
		return link
	}
	return sb.String()
}

// tokenLink builds the frontend link carrying an opaque token and the
// account email, e.g. https://app.example.com/account-verify?token=..&email=..
func tokenLink(baseURL, token, email string) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%stoken=%s&email=%s", baseURL, sep, url.QueryEscape(token), url.QueryEscape(email))
}
