package main

import (
	"os"

	"github.com/jeroenrinzema/mailkit"
)

func main() {
	body := mailkit.Base64(mailkit.NewTextPayload("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))

	msg, err := mailkit.NewMessage().
		From(mailkit.NewMailbox("john", "example.com")).
		Sender(mailkit.NewMailbox("john", "example.com")).
		ReplyTo(mailkit.NewMailbox("reply", "example.com")).
		To(
			mailkit.NewMailbox("bil", "example.com"),
			mailkit.NewMailbox("dan", "example.com"),
		).
		Subject("Check this out!").
		MimeBody(body)
	if err != nil {
		panic(err)
	}

	if _, err := msg.WriteTo(os.Stdout); err != nil {
		panic(err)
	}
}
