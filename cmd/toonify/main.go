// Toonify converts structured documents between common interchange
// formats and TOON, a token-efficient notation for feeding structured
// data to language models.
//
// Usage:
//
//	# Convert JSON (or YAML, XML, CSV) to TOON
//	toonify encode data.json
//
//	# Convert TOON back to JSON
//	toonify decode data.toon --pretty
//
//	# Check a TOON document against the strict rules
//	toonify validate data.toon
//
//	# Re-encode whenever the source file changes
//	toonify encode data.json --out data.toon --watch
//
//	# Report token savings against the source document
//	toonify encode data.json --stats
//
// If no file is given, commands read from stdin.
package main

func main() {
	Execute()
}
