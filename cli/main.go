package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lightbough/treemap"
	ledmap "github.com/lightbough/treemap/led_map"

	"go.viam.com/rdk/logging"
)

func main() {
	calibPath := flag.String("calib", "", "path to camera calibration JSON file")
	detectionsPath := flag.String("detections", "", "path to captured detections JSON file")
	tuningPath := flag.String("tuning", "", "path to tuning overrides JSON file (optional)")
	outPath := flag.String("out", "led_positions.json", "output path for mapped positions")
	flag.Parse()

	logger := logging.NewLogger("treemap-cli")

	if *calibPath == "" {
		logger.Fatal("-calib flag is required")
	}
	if *detectionsPath == "" {
		logger.Fatal("-detections flag is required")
	}

	cameras, cone, numLights, err := treemap.LoadCalibration(*calibPath)
	if err != nil {
		logger.Fatal(err)
	}

	detections, err := treemap.LoadDetections(*detectionsPath)
	if err != nil {
		logger.Fatal(err)
	}

	cfg := ledmap.DefaultConfig()
	if *tuningPath != "" {
		cfg, err = treemap.LoadTuning(*tuningPath)
		if err != nil {
			logger.Fatal(err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Infof("Mapping %d lights from %d cameras", numLights, len(cameras))

	mapper := ledmap.NewMapper(&cfg)
	result, err := mapper.Map(ctx, detections, cameras, cone, numLights)
	if err != nil {
		logger.Fatal(err)
	}

	logger.Infof("Resolved %d observed, %d predicted of %d lights",
		result.NumObserved, result.NumPredicted, numLights)
	for _, cam := range result.SkippedCameras {
		logger.Warnf("Camera %d skipped: invalid geometry", cam)
	}
	for cam, segments := range result.SegmentsByCamera {
		hidden := 0
		for _, seg := range segments {
			if seg.State == ledmap.SegmentHidden {
				hidden++
			}
		}
		logger.Infof("Camera %d: %d segments (%d hidden)", cam, len(segments), hidden)
	}

	if err := treemap.ExportPositions(*outPath, result, cone, len(cameras)); err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Wrote positions to %s", *outPath)
}
