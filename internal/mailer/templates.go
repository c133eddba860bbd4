package mailer

import "fmt"

const signature = "Modion Team"

// SubscribeEmail returns the acknowledgement sent to new subscribers.
func SubscribeEmail() (subject, body string) {
	return "Thanks for Subscribing!",
		"Hi there,\n\nThanks for subscribing to our website! We'll notify you when we have new updates, promotions, or exciting content.\n\n" + signature
}

// ContactEmail returns the acknowledgement sent after a contact message.
func ContactEmail(name, topic string) (subject, body string) {
	return "Thanks for Contacting Us",
		fmt.Sprintf("Hello %s,\n\nThank you for reaching out to us regarding \"%s\". We have received your message and will act accordingly.\n\n%s", name, topic, signature)
}
