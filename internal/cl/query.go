package cl

// CountThenFill runs the two-call query pattern used throughout the OpenCL
// API: query is first called with an empty destination and reports how many
// elements are available, then called again with a slice of exactly that
// length to fill it. A count of zero returns a nil slice without the second
// call.
func CountThenFill[T any](query func(dst []T) (int, error)) ([]T, error) {
	count, err := query(nil)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}

	buf := make([]T, count)
	filled, err := query(buf)
	if err != nil {
		return nil, err
	}
	if filled < count {
		buf = buf[:filled]
	}
	return buf, nil
}

// QueryString is CountThenFill for NUL-terminated string properties.
func QueryString(query func(dst []byte) (int, error)) (string, error) {
	buf, err := CountThenFill(query)
	if err != nil {
		return "", err
	}
	return trimNull(buf), nil
}

func trimNull(buf []byte) string {
	for len(buf) > 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}
