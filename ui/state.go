package ui

type crossingState int

const (
	crossingOpen crossingState = iota
	crossingClosed
)

func (s crossingState) String() string {
	switch s {
	case crossingClosed:
		return "Bahnübergang schließen"
	default:
		return "Bahnübergang öffnen"
	}
}

func (s crossingState) next() crossingState {
	if s == crossingClosed {
		return crossingOpen
	}
	return crossingClosed
}

func (s crossingState) command() string {
	switch s {
	case crossingClosed:
		return "BZU"
	case crossingOpen:
		return "BAUF"
	default:
		return ""
	}
}
