package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 21
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func NanoID() string {
	return gonanoid.MustGenerate(nanoidAlphabet, NanoidSize)
}

// PrefixedID returns a nanoid tagged with a short resource prefix, e.g. "post_4f9XkQ2mZ7aB1cD3eF5gH".
func PrefixedID(prefix string) string {
	if prefix == "" {
		return NanoID()
	}
	return prefix + "_" + NanoID()
}
