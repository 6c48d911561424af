package report

// DefaultSpecs returns the built-in vocabulary analysis: user and word previews, the word
// difficulty breakdown, mean word mastery and per-user performance.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:  "users",
			Kind:  KindRawTable,
			Query: `SELECT * FROM "User"`,
			Limit: 5,
		},
		{
			Name:  "words",
			Kind:  KindRawTable,
			Query: `SELECT * FROM "Word"`,
			Limit: 5,
		},
		{
			Name:   "word_difficulty",
			Kind:   KindCategoricalDistribution,
			Query:  `SELECT difficulty FROM "Word"`,
			Column: "difficulty",
		},
		{
			Name:   "word_mastery",
			Kind:   KindNumericAggregate,
			Query:  `SELECT mastery FROM "Word"`,
			Column: "mastery",
		},
		{
			Name: "user_performance",
			Kind: KindGroupedAggregate,
			Query: `SELECT u.name, COUNT(w.id) AS word_count, AVG(w.mastery) AS avg_mastery
FROM "User" u
JOIN "Word" w ON u.id = w."userId"
GROUP BY u.name`,
		},
	}
}
