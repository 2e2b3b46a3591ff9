package workflow

// ErrorMap maps field name to human message. Absence of a key is the
// canonical "no error" state; an empty string is never stored.
type ErrorMap map[string]string

func (m ErrorMap) Set(field, message string) {
	if message == "" {
		delete(m, field)
		return
	}
	m[field] = message
}

func (m ErrorMap) Clear(field string) {
	delete(m, field)
}

func (m ErrorMap) Has(field string) bool {
	_, found := m[field]
	return found
}

func (m ErrorMap) Message(field string) string {
	return m[field]
}

func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// First returns the first errored field following the given field order,
// used to focus the first invalid input on submit.
func (m ErrorMap) First(order []string) (string, string) {
	for _, field := range order {
		if message, found := m[field]; found {
			return field, message
		}
	}
	for field, message := range m {
		return field, message
	}
	return "", ""
}

func (m ErrorMap) clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for field, message := range m {
		out[field] = message
	}
	return out
}
