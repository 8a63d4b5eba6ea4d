package movement

import "strconv"

// The legacy ledger carries order/credit-note/transfer linkage inside the
// header's fixed-width reference slots instead of foreign keys. The packing
// lives here, at the boundary to persistence; domain code never parses it.

// RefWidth is the width of one header reference slot.
const RefWidth = 12

// PackClientRef left-pads a client code with spaces to the slot width.
func PackClientRef(client string) string {
	return padLeft(client, RefWidth, ' ')
}

// PackDocTypeRef left-pads a document-type code with spaces to the slot width.
func PackDocTypeRef(docType string) string {
	return padLeft(docType, RefWidth, ' ')
}

// PackNumberRef left-pads a document number with zeros to the slot width.
func PackNumberRef(n int) string {
	return padLeft(strconv.Itoa(n), RefWidth, '0')
}

// padLeft pads s to width with the given byte. Overlong values are cut to
// their leftmost characters, matching how the legacy ledger stores them.
func padLeft(s string, width int, pad byte) string {
	if len(s) >= width {
		return s[:width]
	}
	buf := make([]byte, width)
	gap := width - len(s)
	for i := 0; i < gap; i++ {
		buf[i] = pad
	}
	copy(buf[gap:], s)
	return string(buf)
}
