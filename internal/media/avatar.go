package media

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
)

// DefaultAvatarSize is the avatar edge length in pixels.
const DefaultAvatarSize = 100

const avatarBaseURL = "https://api.dicebear.com/7.x"

var avatarStyles = []string{"avataaars", "big-smile", "bottts", "identicon", "initials"}

// seedUnescaper undoes the escapes url.QueryEscape adds for characters a
// browser's encodeURIComponent keeps literal.
var seedUnescaper = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// AvatarURL returns a DiceBear avatar seeded by name. The style is picked at
// random on every call, so the same name may yield different URLs.
func AvatarURL(name string, size int) string {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	style := avatarStyles[rand.IntN(len(avatarStyles))]
	seed := seedUnescaper.Replace(url.QueryEscape(strings.Join(strings.Fields(name), "")))
	return fmt.Sprintf("%s/%s/svg?seed=%s&size=%d", avatarBaseURL, style, seed, size)
}
