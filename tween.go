package livecanvas

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	lua "github.com/yuin/gopher-lua"
)

const tweenTypeName = "livecanvas.tween"

// easings are the easing curves scripts may name in ease and tween.
var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
}

// scriptTween is the value behind a tween handle.
type scriptTween struct {
	tw       *gween.Tween
	value    float32
	finished bool
}

var tweenMethods = map[string]lua.LGFunction{
	"update": tweenUpdate,
	"reset":  tweenReset,
	"value":  tweenValue,
}

func registerTweenType(L *lua.LState) {
	mt := L.NewTypeMetatable(tweenTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), tweenMethods))
}

func checkEasing(a args, i int) ease.TweenFunc {
	name := a.L.CheckString(a.n(i))
	fn, ok := easings[name]
	if !ok {
		a.L.ArgError(a.n(i), "unknown easing "+name)
	}
	return fn
}

// apiEase evaluates an easing curve: ease(name, t, begin, change, duration).
func apiEase(_ *Session, a args) int {
	fn := checkEasing(a, 0)
	t, b, c, d := a.number(1), a.number(2), a.number(3), a.number(4)
	if d <= 0 {
		a.L.Push(lua.LNumber(b + c))
		return 1
	}
	a.L.Push(lua.LNumber(fn(float32(t), float32(b), float32(c), float32(d))))
	return 1
}

// apiTween creates a handle animating from -> to over duration:
// tween(from, to, duration[, easing]).
func apiTween(_ *Session, a args) int {
	from, to, dur := a.number(0), a.number(1), a.number(2)
	if dur <= 0 {
		a.L.ArgError(a.n(2), "duration must be positive")
	}
	fn := ease.Linear
	if a.has(3) {
		fn = checkEasing(a, 3)
	}
	ud := a.L.NewUserData()
	ud.Value = &scriptTween{
		tw:    gween.New(float32(from), float32(to), float32(dur), fn),
		value: float32(from),
	}
	a.L.SetMetatable(ud, a.L.GetTypeMetatable(tweenTypeName))
	a.L.Push(ud)
	return 1
}

func checkTween(L *lua.LState) *scriptTween {
	ud := L.CheckUserData(1)
	if t, ok := ud.Value.(*scriptTween); ok {
		return t
	}
	L.ArgError(1, "tween expected")
	return nil
}

// tweenUpdate advances by dt and returns value, finished.
func tweenUpdate(L *lua.LState) int {
	t := checkTween(L)
	t.value, t.finished = t.tw.Update(float32(L.CheckNumber(2)))
	L.Push(lua.LNumber(t.value))
	L.Push(lua.LBool(t.finished))
	return 2
}

func tweenReset(L *lua.LState) int {
	t := checkTween(L)
	t.tw.Reset()
	t.value, t.finished = t.tw.Update(0)
	return 0
}

func tweenValue(L *lua.LState) int {
	t := checkTween(L)
	L.Push(lua.LNumber(t.value))
	return 1
}
