package vitals

type StubSource struct {
	Reading      *Reading
	LatestErr    error
	Readings     []Reading
	HistoryFound bool
	SummaryList  []Summary
	Today        TodaysHourly
	Err          error
}

func (s *StubSource) Latest() (Reading, error) {
	if s.LatestErr != nil {
		return Reading{}, s.LatestErr
	}
	if s.Reading == nil {
		return Reading{}, ErrNoData
	}
	return *s.Reading, nil
}

func (s *StubSource) History() ([]Reading, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	return append([]Reading(nil), s.Readings...), s.HistoryFound, nil
}

func (s *StubSource) Summaries(limit int) ([]Summary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > 0 && len(s.SummaryList) > limit {
		return s.SummaryList[:limit], nil
	}
	return s.SummaryList, nil
}

func (s *StubSource) TodaysHourly() (TodaysHourly, error) {
	return s.Today, s.Err
}
