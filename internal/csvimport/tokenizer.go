package csvimport

import "strings"

// SplitLine separa una línea CSV en campos respetando comillas dobles.
// Dentro de comillas, las comas se conservan y "" es una comilla escapada.
// Los campos se devuelven sin espacios alrededor.
func SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}

	var (
		fields   []string
		sb       strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			sb.WriteByte('"')
			i++
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(sb.String()))
			sb.Reset()
		default:
			sb.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(sb.String()))
	return fields
}

// splitLines normaliza saltos de línea (\r\n, \r) y separa el reporte en líneas.
func splitLines(raw string) []string {
	raw = strings.TrimPrefix(raw, "\ufeff") // BOM de exports de Windows
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}
