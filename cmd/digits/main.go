package main

import (
	"context"
	"fmt"
	"os"

	"github.com/drakos74/digits/infra/config"
	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/explore"
	"github.com/drakos74/digits/internal/introspect"
	"github.com/drakos74/digits/internal/metrics"
	"github.com/drakos74/digits/internal/report"
	"github.com/drakos74/digits/internal/storage/file"
	"github.com/drakos74/digits/internal/train"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type trainer func(ctx context.Context, cfg train.Config, sets data.Sets, opts ...train.Option) (*train.Result, error)

func main() {

	ctx, cnl := context.WithCancel(context.Background())
	defer cnl()

	var dataCfg data.Config
	config.MustLoad("data", &dataCfg)
	dataCfg = dataCfg.WithDefaults()

	var reportCfg report.Config
	config.MustLoad("report", &reportCfg)
	reportCfg = reportCfg.WithDefaults()

	if srv := metrics.Serve(reportCfg.MetricsPort); srv != nil {
		defer srv.Close()
	}

	source := data.NewSource()
	if dataCfg.Cache {
		source = source.WithCache(file.DefaultCache())
	}

	examples, err := source.Load(ctx, dataCfg.TrainURL)
	if err != nil {
		panic(fmt.Sprintf("could not load training data: %+v", err))
	}
	rng := dataCfg.Rand()
	sets := data.Partition(examples, dataCfg.Rows, dataCfg.Training, rng)
	log.Info().
		Int("training", sets.Training.Len()).
		Int("validation", sets.Validation.Len()).
		Msg("loaded data")

	if reportCfg.Explore {
		pixels := reportCfg.DescribePixels
		if len(pixels) == 0 {
			pixels = explore.SamplePixels
		}
		if err := explore.Summarize(os.Stdout, "Training examples", sets.Training, pixels...); err != nil {
			log.Error().Err(err).Msg("could not describe training data")
		}
		if err := explore.Summarize(os.Stdout, "Validation examples", sets.Validation, pixels...); err != nil {
			log.Error().Err(err).Msg("could not describe validation data")
		}
		if _, err := explore.Example(os.Stdout, sets.Training, rng); err != nil {
			log.Error().Err(err).Msg("could not render example")
		}
		if _, err := explore.Clusters(sets.Training.Head(1000), data.Classes, 20); err != nil {
			log.Error().Err(err).Msg("could not cluster training data")
		}
	}

	test, err := source.Load(ctx, dataCfg.TestURL)
	if err != nil {
		panic(fmt.Sprintf("could not load test data: %+v", err))
	}

	models := []struct {
		key string
		run trainer
	}{
		{key: "linear", run: train.Linear},
		{key: "dnn", run: train.DNN},
		{key: "forest", run: train.Forest},
		{key: "perceptron", run: train.Perceptron},
	}

	for _, m := range models {
		var cfg train.Config
		config.MustLoad(m.key, &cfg)
		if !cfg.Enabled {
			log.Info().Str("model", m.key).Msg("skipping disabled model")
			continue
		}
		result, err := m.run(ctx, cfg, sets, train.WithReport(reportCfg))
		if err != nil {
			panic(fmt.Sprintf("could not train %s: %+v", m.key, err))
		}

		accuracy, err := train.Evaluate(ctx, result.Model, test, reportCfg.TestBatchSize)
		if err != nil {
			panic(fmt.Sprintf("could not evaluate %s on test data: %+v", m.key, err))
		}
		metrics.Observer.Accuracy(m.key, metrics.Test, accuracy)
		fmt.Printf("Accuracy on test data: %0.2f\n", accuracy)

		fmt.Println(result.Model.VariableNames())
		if m.key == "dnn" {
			weights(result, reportCfg)
		}
	}
}

func weights(result *train.Result, cfg report.Config) {
	rows, cols, err := introspect.Shape(result.Model, introspect.FirstHiddenLayer)
	if err != nil {
		log.Error().Err(err).Msg("could not read first hidden layer")
		return
	}
	fmt.Printf("weights0 shape: (%d, %d)\n", rows, cols)

	images, err := introspect.Images(result.Model, introspect.FirstHiddenLayer)
	if err != nil {
		log.Error().Err(err).Msg("could not create weight images")
		return
	}
	if err := report.Grid(os.Stdout, images, data.Side, report.PerRow); err != nil {
		log.Error().Err(err).Msg("could not render weights")
	}
	if cfg.PNGDir != "" {
		if err := report.SaveGrid(cfg.PNGDir, result.Name, images, data.Side, report.PerRow); err != nil {
			log.Error().Err(err).Msg("could not save weights")
		}
	}
}
