package output

// T localizes the messages printed by the command-line tools.
type T interface {
	// T renders message key in locale, falling back to the default locale
	// then to the key. data fills template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
