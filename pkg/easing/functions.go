package easing

import "math"

// Easing Functions (缓动函数)
//
// 解析形式的缓动函数，输入进度 t ∈ [0, 1]。
// 二次/三次预设直接用等价的贝塞尔控制点表示；弹性与弹跳预设
// 通过对这些函数采样构造多点曲线。
//
// 参考：https://easings.net/

// Func 解析缓动函数
type Func func(t float64) float64

// EaseInQuad 二次方缓入，f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad 二次方缓出，f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInCubic 三次方缓入，f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic 三次方缓出，f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

const elasticPeriod = 2 * math.Pi / 3

// EaseInElastic 弹性缓入（起点附近反向振荡）
func EaseInElastic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*elasticPeriod)
}

// EaseOutElastic 弹性缓出（终点附近过冲振荡）
func EaseOutElastic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*elasticPeriod) + 1
}

// EaseInOutElastic 弹性缓入缓出
func EaseInOutElastic(t float64) float64 {
	const p = 2 * math.Pi / 4.5
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return -(math.Pow(2, 20*t-10) * math.Sin((20*t-11.125)*p)) / 2
	default:
		return math.Pow(2, -20*t+10)*math.Sin((20*t-11.125)*p)/2 + 1
	}
}

// EaseOutBounce 弹跳缓出
func EaseOutBounce(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// EaseInBounce 弹跳缓入
func EaseInBounce(t float64) float64 {
	return 1 - EaseOutBounce(1-t)
}

// EaseInOutBounce 弹跳缓入缓出
func EaseInOutBounce(t float64) float64 {
	if t < 0.5 {
		return (1 - EaseOutBounce(1-2*t)) / 2
	}
	return (1 + EaseOutBounce(2*t-1)) / 2
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// FromFunc 对解析函数均匀采样构造多点曲线
//
// 每个采样点的手柄由数值导数按 Hermite→Bézier 关系得到（手柄长度为段宽的 1/3）。
// 采样值截断到 [0,1]，以满足控制点位置不变量。
//
// 参数：
//   - f: 解析缓动函数，f(0)=0，f(1)=1
//   - segments: 段数，至少为 1
func FromFunc(f Func, segments int) BezierCurve {
	if segments < 1 {
		segments = 1
	}
	const h = 1e-4
	w := 1.0 / float64(segments)
	points := make([]BezierPoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) * w
		// 两端使用单侧差分，避免在 [0,1] 之外求值
		var slope float64
		switch i {
		case 0:
			slope = (f(h) - f(0)) / h
		case segments:
			slope = (f(1) - f(1-h)) / h
		default:
			slope = (f(t+h) - f(t-h)) / (2 * h)
		}
		hx := w / 3
		p := BezierPoint{
			Pos: Vec2{X: float32(t), Y: clamp01(float32(f(t)))},
			In:  Vec2{X: float32(-hx), Y: float32(-hx * slope)},
			Out: Vec2{X: float32(hx), Y: float32(hx * slope)},
		}
		if i == 0 {
			p.In = Vec2{}
		}
		if i == segments {
			p.Out = Vec2{}
			p.Pos.X = 1
		}
		points = append(points, p)
	}
	return BezierCurve{Points: points}
}
