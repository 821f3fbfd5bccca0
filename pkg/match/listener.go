package match

// Listener receives match events, called from the match's control goroutine
type Listener interface {
	OnTurn(info TurnInfo)
	OnEnd(result Result)
}

type NopListener struct{}

func (NopListener) OnTurn(TurnInfo) {}
func (NopListener) OnEnd(Result)    {}

// Listeners forwards every event to each of its listeners, in order
type Listeners []Listener

func (ls Listeners) OnTurn(info TurnInfo) {
	for _, l := range ls {
		l.OnTurn(info)
	}
}

func (ls Listeners) OnEnd(result Result) {
	for _, l := range ls {
		l.OnEnd(result)
	}
}

// ListenerFuncs adapts plain functions, nil ones are skipped
type ListenerFuncs struct {
	Turn func(TurnInfo)
	End  func(Result)
}

func (f ListenerFuncs) OnTurn(info TurnInfo) {
	if f.Turn != nil {
		f.Turn(info)
	}
}

func (f ListenerFuncs) OnEnd(result Result) {
	if f.End != nil {
		f.End(result)
	}
}
