package render

// State tells the UI whether to draw the artifacts or the guidance message.
type State string

const (
	StateRendered State = "rendered"
	StateEmpty    State = "empty"
)

// Bundle is everything one apply cycle produces. In StateEmpty only Message and Hint are set.
type Bundle struct {
	State     State          `json:"state"`
	Message   string         `json:"message,omitempty"`
	Hint      string         `json:"hint,omitempty"`
	Rows      int            `json:"rows"`
	Histogram *HistogramSpec `json:"histogram,omitempty"`
	BoxPlot   *BoxPlotSpec   `json:"boxplot,omitempty"`
	Table     *TableSpec     `json:"table,omitempty"`
}

func Empty(message, hint string) *Bundle {
	return &Bundle{State: StateEmpty, Message: message, Hint: hint}
}
