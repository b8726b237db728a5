package parsing

import (
	"regexp"
	"strings"
)

// technologyVocabulary is the curated keyword list shared by the skills
// extractor and the per-entry technology collection in work experience
// and projects.
var technologyVocabulary = []string{
	"Go", "Golang", "Python", "Java", "JavaScript", "TypeScript", "C++", "C#",
	"Ruby", "PHP", "Rust", "Kotlin", "Swift", "Scala", "SQL", "HTML", "CSS",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring",
	"Rails", ".NET", "Express",
	"Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins", "Git",
	"Linux", "AWS", "Azure", "GCP",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "SQLite",
	"Kafka", "RabbitMQ", "GraphQL", "REST", "gRPC",
	"TensorFlow", "PyTorch", "Pandas", "NumPy", "Spark", "Hadoop",
	"Machine Learning", "Deep Learning", "CI/CD", "Agile", "Scrum",
}

type vocabEntry struct {
	name string
	re   *regexp.Regexp
}

var vocabPatterns = compileVocab()

func compileVocab() []vocabEntry {
	entries := make([]vocabEntry, 0, len(technologyVocabulary))
	for _, name := range technologyVocabulary {
		// Word-boundary match; symbols like "C++" need custom edges.
		pattern := `(?i)(^|[^a-zA-Z0-9+#])` + regexp.QuoteMeta(strings.ToLower(name)) + `($|[^a-zA-Z0-9+#])`
		entries = append(entries, vocabEntry{name: name, re: regexp.MustCompile(pattern)})
	}
	return entries
}

// findTechnologies returns the vocabulary entries present in the text,
// deduplicated, in vocabulary order.
func findTechnologies(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, entry := range vocabPatterns {
		if entry.re.MatchString(lower) {
			found = append(found, entry.name)
		}
	}
	return found
}

// dedupeFold removes duplicates case-insensitively while preserving
// insertion order of the first occurrence.
func dedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(item))
	}
	return out
}
