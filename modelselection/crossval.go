package modelselection

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/dshelpers/core/model"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
	"github.com/YuminosukeSato/dshelpers/pkg/log"
)

// Scores は分割ごとのテストスコア（分割順）
type Scores []float64

// Mean はスコアの平均を返す
func (s Scores) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s, nil)
}

// Std はスコアの標本標準偏差を返す
func (s Scores) Std() float64 {
	if len(s) < 2 {
		return 0
	}
	return stat.StdDev(s, nil)
}

// CrossValScore は分割ごとに newEstimator で新しい推定器を作り、学習用の行で
// Fit、テスト用の行で Predict して scorer で評価する。分割は並行に処理し、
// スコアは分割順に返す。最初のエラーで残りを取り消す。
func CrossValScore(ctx context.Context, newEstimator func() model.Estimator, X, y mat.Matrix, kf KFold, scorer model.ScoreFunc) (Scores, error) {
	n, _ := X.Dims()
	if ny, _ := y.Dims(); ny != n {
		return nil, errors.NewDimensionError("CrossValScore", n, ny, 0)
	}
	folds, err := kf.Split(n)
	if err != nil {
		return nil, err
	}
	return crossValidate(ctx, newEstimator, X, y, folds, scorer)
}

// CrossValScoreFolds は任意の分割（StratifiedKFold など）で CrossValScore と同じ評価を行う
func CrossValScoreFolds(ctx context.Context, newEstimator func() model.Estimator, X, y mat.Matrix, folds []Fold, scorer model.ScoreFunc) (Scores, error) {
	return crossValidate(ctx, newEstimator, X, y, folds, scorer)
}

func crossValidate(ctx context.Context, newEstimator func() model.Estimator, X, y mat.Matrix, folds []Fold, scorer model.ScoreFunc) (Scores, error) {
	logger := log.GetLoggerWithName("modelselection")
	scores := make(Scores, len(folds))

	g, gctx := errgroup.WithContext(ctx)
	for k, fold := range folds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return errors.SafeExecute("CrossValScore", func() error {
				start := time.Now()
				score, err := evaluateFold(newEstimator(), X, y, fold, scorer)
				if err != nil {
					return errors.Wrapf(err, "fold %d", k)
				}
				scores[k] = score
				logger.Debug("Evaluated fold",
					log.FoldKey, k,
					log.ScoreKey, score,
					log.DurationMsKey, time.Since(start).Milliseconds(),
				)
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("Cross validation finished",
		log.OperationKey, log.OperationCrossValidate,
		log.ScoreKey, scores.Mean(),
	)
	return scores, nil
}

func evaluateFold(est model.Estimator, X, y mat.Matrix, fold Fold, scorer model.ScoreFunc) (float64, error) {
	if err := est.Fit(takeRows(X, fold.TrainIndices), takeRows(y, fold.TrainIndices)); err != nil {
		return 0, err
	}
	pred, err := est.Predict(takeRows(X, fold.TestIndices))
	if err != nil {
		return 0, err
	}
	yTest := takeRows(y, fold.TestIndices)
	n := len(fold.TestIndices)
	return scorer(
		mat.NewVecDense(n, mat.Col(nil, 0, yTest)),
		mat.NewVecDense(n, mat.Col(nil, 0, pred)),
	)
}
