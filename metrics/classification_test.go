package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/classwise/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			name:  "75% accuracy",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 0, 0},
			want:  0.75,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "Length mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0, 1, 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			}

			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyMatrix(t *testing.T) {
	yTrue := mat.NewDense(5, 1, []float64{1, 0, 1, 1, 0})
	yPred := mat.NewDense(5, 1, []float64{1, 0, 0, 1, 0})

	got, err := AccuracyScorer(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got, 1e-12)

	_, err = AccuracyMatrix(yTrue, mat.NewDense(4, 1, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = AccuracyMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

func TestColumnVec(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	v := ColumnVec(m, 1)
	assert.Equal(t, []float64{2, 4, 6}, v.RawVector().Data)
}

func BenchmarkAccuracy(b *testing.B) {
	n := 1000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i%2))
		yPred.SetVec(i, float64((i/3)%2))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Accuracy(yTrue, yPred)
	}
}
