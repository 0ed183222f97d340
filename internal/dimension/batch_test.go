package dimension_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/evtdim/internal/dimension"
	"github.com/san-kum/evtdim/internal/dynamo"
	"github.com/san-kum/evtdim/internal/evt"
	"github.com/san-kum/evtdim/internal/progress"
)

var _ = Describe("DimsPersistences", func() {
	var (
		ctx context.Context
		rng *rand.Rand
		typ evt.Extraction
	)

	BeforeEach(func() {
		ctx = context.Background()
		rng = rand.New(rand.NewSource(42))
		typ = evt.Exceedances{P: 0.95, Estimator: evt.EstimatorExp}
	})

	It("returns one dimension and one theta per point", func() {
		X := square(rng, 300)

		res, err := dimension.DimsPersistences(ctx, X, typ)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Dims).To(HaveLen(300))
		Expect(res.Thetas).To(HaveLen(300))
		for j := range res.Dims {
			Expect(res.Dims[j]).To(BeNumerically(">=", 0))
			Expect(res.Thetas[j]).To(And(BeNumerically(">", 0), BeNumerically("<=", 1)))
		}
	})

	It("fills theta with NaN when persistence is off", func() {
		res, err := dimension.DimsPersistences(ctx, square(rng, 200), typ, dimension.WithComputePersistence(false))
		Expect(err).NotTo(HaveOccurred())
		for _, th := range res.Thetas {
			Expect(math.IsNaN(th)).To(BeTrue())
		}
		Expect(math.IsNaN(res.MeanTheta())).To(BeTrue())
	})

	It("does not depend on the number of workers", func() {
		X := square(rng, 250)

		one, err := dimension.DimsPersistences(ctx, X, typ, dimension.WithWorkers(1))
		Expect(err).NotTo(HaveOccurred())
		many, err := dimension.DimsPersistences(ctx, X, typ, dimension.WithWorkers(7))
		Expect(err).NotTo(HaveOccurred())

		Expect(many.Dims).To(Equal(one.Dims))
		Expect(many.Thetas).To(Equal(one.Thetas))
	})

	It("survives exact duplicates of a point", func() {
		points := make([]dynamo.State, 0, 201)
		for i := 0; i < 200; i++ {
			points = append(points, dynamo.State{rng.Float64(), rng.Float64()})
		}
		points = append(points, points[17].Clone())
		X, err := dynamo.NewStateSpaceSet(points)
		Expect(err).NotTo(HaveOccurred())

		res, err := dimension.DimsPersistences(ctx, X, typ)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsInf(res.Dims[17], 0)).To(BeFalse())
		Expect(math.IsInf(res.Dims[200], 0)).To(BeFalse())
	})

	It("reports progress once per point", func() {
		var count atomic.Int64
		_, err := dimension.DimsPersistences(ctx, square(rng, 150), typ,
			dimension.WithProgress(progress.Func(func() { count.Add(1) })))
		Expect(err).NotTo(HaveOccurred())
		Expect(count.Load()).To(BeEquivalentTo(150))
	})

	It("rejects bad configuration before any work", func() {
		var count atomic.Int64
		sink := dimension.WithProgress(progress.Func(func() { count.Add(1) }))
		X := square(rng, 50)

		_, err := dimension.DimsPersistences(ctx, X, evt.Exceedances{P: 1.2, Estimator: evt.EstimatorExp}, sink)
		Expect(err).To(MatchError(evt.ErrInvalidProbability))

		_, err = dimension.DimsPersistences(ctx, X, evt.BlockMaxima{BlockSize: 0, Estimator: evt.EstimatorMoments}, sink)
		Expect(err).To(MatchError(evt.ErrInvalidBlockSize))

		_, err = dimension.DimsPersistences(ctx, X, nil, sink)
		Expect(err).To(MatchError(evt.ErrUnknownExtraction))

		Expect(count.Load()).To(BeZero())
	})

	It("aborts on the first degenerate point", func() {
		X := square(rng, 5)

		res, err := dimension.DimsPersistences(ctx, X, evt.Exceedances{P: 0.9, Estimator: evt.EstimatorMLE})
		Expect(res).To(BeNil())
		Expect(err).To(MatchError(evt.ErrDegenerateSample))

		var pointErr *dimension.PointError
		Expect(errors.As(err, &pointErr)).To(BeTrue())
		Expect(pointErr.Index).To(And(BeNumerically(">=", 0), BeNumerically("<", 5)))
	})

	It("stops when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := dimension.DimsPersistences(canceled, square(rng, 100), typ)
		Expect(err).To(MatchError(context.Canceled))
	})

	Context("on sets of known dimension", func() {
		typ := evt.Exceedances{P: 0.98, Estimator: evt.EstimatorExp}

		It("finds dimension one on a circle", func() {
			dim, err := dimension.Dim(ctx, circle(rng, 1000), typ)
			Expect(err).NotTo(HaveOccurred())
			Expect(dim).To(And(BeNumerically(">=", 0.8), BeNumerically("<=", 1.3)))
		})

		It("finds dimension two on a square", func() {
			dim, err := dimension.Dim(ctx, square(rng, 1000), typ)
			Expect(err).NotTo(HaveOccurred())
			Expect(dim).To(And(BeNumerically(">=", 1.7), BeNumerically("<=", 2.3)))
		})
	})
})

var _ = Describe("DimsPersistencesProbability", func() {
	It("matches explicit exponential exceedances and warns", func() {
		ctx := context.Background()
		X := square(rand.New(rand.NewSource(42)), 300)

		core, logs := observer.New(zapcore.WarnLevel)
		logger := zap.New(core)

		deprecated, err := dimension.DimsPersistencesProbability(ctx, X, 0.95, dimension.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())

		explicit, err := dimension.DimsPersistences(ctx, X,
			evt.Exceedances{P: 0.95, Estimator: evt.EstimatorExp}, dimension.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())

		Expect(deprecated.Dims).To(Equal(explicit.Dims))
		Expect(deprecated.Thetas).To(Equal(explicit.Thetas))
		Expect(logs.FilterMessageSnippet("deprecated").Len()).To(Equal(1))
	})
})

var _ = Describe("Dims", func() {
	It("passes the local dimensions through", func() {
		ctx := context.Background()
		X := square(rand.New(rand.NewSource(7)), 200)
		typ := evt.Exceedances{P: 0.95, Estimator: evt.EstimatorMoments}

		dims, err := dimension.Dims(ctx, X, typ)
		Expect(err).NotTo(HaveOccurred())

		res, err := dimension.DimsPersistences(ctx, X, typ)
		Expect(err).NotTo(HaveOccurred())
		Expect(dims).To(Equal(res.Dims))
	})
})
