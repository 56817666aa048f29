package exchange

// Log holds exchanges in the order they happened.
type Log struct {
	exchanges []Exchange
}

// Add appends an exchange.
func (l *Log) Add(e Exchange) {
	l.exchanges = append(l.exchanges, e)
}

// Len returns the number of exchanges.
func (l *Log) Len() int { return len(l.exchanges) }

// Exchanges returns a copy of the log.
func (l *Log) Exchanges() []Exchange {
	return append([]Exchange{}, l.exchanges...)
}

// Metrics recomputes the aggregate over the whole log on every call.
func (l *Log) Metrics() Metrics {
	m := Metrics{
		TotalExchanges:     len(l.exchanges),
		OrientationJourney: []string{},
		SentimentJourney:   []float64{},
		ComplexityJourney:  []float64{},
		ThemeFrequency:     map[string]int{},
	}
	if len(l.exchanges) == 0 {
		return m
	}

	counts := map[string]int{}
	var order []string
	for _, e := range l.exchanges {
		r := e.Analysis
		m.TotalQuestions += r.Questions
		m.TotalWords += r.WordCount
		m.AverageComplexity += r.Complexity
		m.AverageSentiment += r.Sentiment
		m.AverageTension += r.NarrativeTension
		m.AverageVolatility += r.EmotionalVolatility
		m.NarrativeBalance.Antenarrative += r.AntenarrativeScore
		m.NarrativeBalance.GrandNarrative += r.GrandNarrativeScore
		m.NarrativeBalance.LivingStory += r.LivingStoryScore

		m.OrientationJourney = append(m.OrientationJourney, r.Orientation)
		m.SentimentJourney = append(m.SentimentJourney, r.Sentiment)
		m.ComplexityJourney = append(m.ComplexityJourney, r.Complexity)
		for _, t := range r.Themes {
			m.ThemeFrequency[t]++
		}
		if counts[r.Orientation] == 0 {
			order = append(order, r.Orientation)
		}
		counts[r.Orientation]++
	}

	n := float64(len(l.exchanges))
	m.AverageComplexity /= n
	m.AverageSentiment /= n
	m.AverageTension /= n
	m.AverageVolatility /= n
	m.NarrativeBalance.Antenarrative /= n
	m.NarrativeBalance.GrandNarrative /= n
	m.NarrativeBalance.LivingStory /= n

	// Ties go to the orientation seen first.
	for _, o := range order {
		if m.DominantOrientation == "" || counts[o] > counts[m.DominantOrientation] {
			m.DominantOrientation = o
		}
	}
	return m
}
