package delivery

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/forest-guardian/canopy-height-poc/internal/dataset"
	"github.com/forest-guardian/canopy-height-poc/internal/gedi"
	"github.com/forest-guardian/canopy-height-poc/internal/jobs"
	"github.com/forest-guardian/canopy-height-poc/internal/ml"
	"github.com/forest-guardian/canopy-height-poc/internal/properties"
	"github.com/forest-guardian/canopy-height-poc/internal/sentinel"
	"github.com/forest-guardian/canopy-height-poc/output"
)

// ArtifactResult records the outcome of one export. Exports are
// independent: a failed artifact is reported but does not undo or block the
// others.
type ArtifactResult struct {
	Name string
	Path string
	Err  error
}

// RunResult is what the operator sees at the end of a run.
type RunResult struct {
	TrainingSamples int
	TestingSamples  int
	Metrics         ml.Metrics
	Importances     []float64
	FeatureBands    []string
	Artifacts       []ArtifactResult
}

// RunPipeline executes the height-mapping workflow end to end: load assets,
// filter and aggregate the GEDI shots, join them to the composite
// predictors, split, fit the forest, evaluate on the held-out set and
// export the artifacts. Steps run strictly in order; the two heavy ones
// (spatial join, prediction raster) are submitted as jobs and awaited.
func RunPipeline(ctx context.Context) (*RunResult, error) {
	rootPath := properties.RootPath()
	roiPath := filepath.Join(rootPath, "data", "geojsons", properties.RoiAsset())
	compositePath := filepath.Join(rootPath, "data", "composites", properties.CompositeAsset())
	gediPath := filepath.Join(rootPath, "data", "gedi", properties.GediAsset())
	windowStart := properties.GediWindowStart()
	windowEnd := properties.GediWindowEnd()

	// Step 1: assets. Anything missing here aborts before computation.
	fmt.Println("Loading assets...")
	roi, err := sentinel.LoadROI(roiPath)
	if err != nil {
		return nil, err
	}
	shots, err := gedi.LoadShots(gediPath)
	if err != nil {
		return nil, err
	}
	if err := sentinel.EnsureCompositeFile(compositePath, roi, windowStart, windowEnd); err != nil {
		return nil, err
	}
	comp, err := sentinel.OpenComposite(compositePath, properties.TargetEPSG())
	if err != nil {
		return nil, err
	}
	defer comp.Close()

	if lat, lon, err := sentinel.RoiCentroid(roi); err == nil {
		fmt.Printf("ROI centered at %.5f, %.5f; %d GEDI shots loaded\n", lat, lon, len(shots))
	}

	// Step 2: quality filter.
	filtered := gedi.FilterShots(shots, roi, windowStart, windowEnd)
	fmt.Printf("Quality filter kept %d of %d shots (%s to %s)\n",
		len(filtered), len(shots), windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02"))
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w (loaded %d shots)", gedi.ErrNoShots, len(shots))
	}

	// Steps 3-4: aggregate to 25 m cells, then extract the 11 predictor
	// bands at each cell centre.
	originX, originY := comp.Origin()
	grid := gedi.Grid{OriginX: originX, OriginY: originY, CellSize: gedi.GridCellSize}
	cells, err := gedi.AggregateShots(filtered, grid, comp.ProjectLonLat)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	fmt.Printf("Aggregated into %d cells\n", len(cells))

	runner := jobs.NewRunner(2)
	defer runner.StopWait()

	var samples []dataset.Sample
	joinJob := runner.Submit("spatial join", func() error {
		var joinErr error
		samples, joinErr = dataset.BuildSamples(comp, cells, properties.WorkerPoolSize())
		return joinErr
	})
	if err := joinJob.Await(ctx); err != nil {
		return nil, err
	}

	// Step 5: reproducible split.
	train, test, err := dataset.Split(samples, dataset.SplitSeed, dataset.TrainFraction)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Split %d samples into %d training / %d testing\n", len(train)+len(test), len(train), len(test))

	// Step 6: fit and predict.
	model := ml.NewRandomForestRegressor(ml.NumTrees, ml.MinLeafPopulation, ml.BagFraction, ml.ForestSeed)
	trainX := make([][]float64, len(train))
	trainY := make([]float64, len(train))
	for i, sample := range train {
		trainX[i] = sample.Features()
		trainY[i] = sample.RH95
	}
	if err := model.Fit(trainX, trainY, sentinel.FeatureBands()); err != nil {
		return nil, fmt.Errorf("model fit failed: %w", err)
	}

	pairs, err := predictHeldOut(model, test)
	if err != nil {
		return nil, err
	}

	// Step 7: evaluate.
	metrics, err := ml.EvaluatePairs(pairs)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	fmt.Printf("RMSE %.3f m, MAE %.3f m over %d held-out samples\n", metrics.RMSE, metrics.MAE, metrics.Pairs)

	importances, err := model.FeatureImportances()
	if err != nil {
		return nil, err
	}

	// Step 8: exports. Each artifact is attempted regardless of earlier
	// failures and reported individually.
	result := &RunResult{
		TrainingSamples: len(train),
		TestingSamples:  len(test),
		Metrics:         metrics,
		Importances:     importances,
		FeatureBands:    sentinel.FeatureBands(),
	}
	result.Artifacts = exportArtifacts(ctx, runner, comp, model, train, test, pairs, importances)
	return result, nil
}

// predictHeldOut pairs every testing sample with its prediction, keyed by
// sample identity. Every sample gets exactly one pair; a prediction failure
// aborts rather than shrinking the set.
func predictHeldOut(model *ml.RandomForestRegressor, test []dataset.Sample) ([]ml.PairedSample, error) {
	pairs := make([]ml.PairedSample, len(test))
	for i, sample := range test {
		prediction, err := model.Predict(sample.Features())
		if err != nil {
			return nil, fmt.Errorf("prediction failed for sample %d: %w", sample.ID, err)
		}
		pairs[i] = ml.PairedSample{
			SampleID:  sample.ID,
			Observed:  sample.RH95,
			Predicted: prediction,
			Residual:  prediction - sample.RH95,
		}
	}
	return pairs, nil
}

func exportArtifacts(ctx context.Context, runner *jobs.Runner, comp *sentinel.Composite, model *ml.RandomForestRegressor,
	train, test []dataset.Sample, pairs []ml.PairedSample, importances []float64) []ArtifactResult {

	outDir := properties.OutputPath()
	trainingPath := filepath.Join(outDir, "training_samples.csv")
	testingPath := filepath.Join(outDir, "testing_samples.csv")
	evaluationPath := filepath.Join(outDir, "evaluation.csv")
	importancePath := filepath.Join(outDir, "feature_importances.csv")
	rasterPath := filepath.Join(outDir, "canopy_height.tif")
	quicklookPath := filepath.Join(outDir, "canopy_height.png")

	results := []ArtifactResult{
		{Name: "training samples table", Path: trainingPath, Err: output.WriteSamplesCSV(trainingPath, train)},
		{Name: "testing samples table", Path: testingPath, Err: output.WriteSamplesCSV(testingPath, test)},
		{Name: "evaluation table", Path: evaluationPath, Err: output.WriteEvaluationCSV(evaluationPath, pairs)},
		{Name: "feature importances table", Path: importancePath, Err: output.WriteFeatureImportancesCSV(importancePath, sentinel.FeatureBands(), importances)},
	}

	rasterJob := runner.Submit("prediction raster export", func() error {
		return output.WritePredictionRaster(comp, model, rasterPath, properties.TargetEPSG(), properties.MaxExportPixels())
	})
	rasterErr := rasterJob.Await(ctx)
	results = append(results, ArtifactResult{Name: "predicted raster", Path: rasterPath, Err: rasterErr})

	if rasterErr == nil {
		results = append(results, ArtifactResult{Name: "quicklook", Path: quicklookPath, Err: output.RenderQuicklook(rasterPath, quicklookPath)})
	}

	return results
}
