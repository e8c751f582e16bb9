package downloader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/ligustah/goesdl/internal/metrics"
	"github.com/ligustah/goesdl/internal/raster"
	"github.com/ligustah/goesdl/pkg/goes"
)

const (
	keyC02  = "ABI-L1b-RadC/2021/365/20/OR_ABI-L1b-RadC-M6C02_G16_s20213652001170_e20213652003543_c20213652004001.nc"
	keyC13  = "ABI-L1b-RadC/2021/365/20/OR_ABI-L1b-RadC-M6C13_G16_s20213652001170_e20213652003543_c20213652004001.nc"
	keyC02b = "ABI-L1b-RadC/2021/365/20/OR_ABI-L1b-RadC-M6C02_G16_s20213652006170_e20213652008543_c20213652009001.nc"
)

// fakeConverter records conversions and reports one Rad raster per file.
type fakeConverter struct {
	calls  [][2]string
	failOn int // 1-based call that fails, 0 never
}

func (f *fakeConverter) Convert(src, dst string) ([]string, error) {
	f.calls = append(f.calls, [2]string{src, dst})
	if f.failOn == len(f.calls) {
		return nil, errors.New("cannot open container")
	}
	return []string{raster.OutputPath(dst, "Rad")}, nil
}

func openBucket(t *testing.T, ctx context.Context, keys ...string) *blob.Bucket {
	t.Helper()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { bucket.Close() })

	for _, key := range keys {
		require.NoError(t, bucket.WriteAll(ctx, key, []byte("netcdf:"+key), nil))
	}
	return bucket
}

func catalog(t *testing.T, keys ...string) goes.Catalog {
	t.Helper()
	var cat goes.Catalog
	for _, key := range keys {
		e, err := goes.ParseKey(key, goes.DefaultProduct)
		require.NoError(t, err)
		cat = append(cat, e)
	}
	return cat
}

func TestDownloadBasic(t *testing.T) {
	ctx := context.Background()
	bucket := openBucket(t, ctx, keyC02, keyC13, keyC02b)
	base := t.TempDir()

	res, err := Download(ctx, bucket, catalog(t, keyC02, keyC13, keyC02b), Options{BaseDir: base})
	require.NoError(t, err)

	assert.Equal(t, "RadC", res.Product)
	require.Len(t, res.Files, 3)

	wantNames := []string{"20211231-1201_B02.tif", "20211231-1201_B13.tif", "20211231-1206_B02.tif"}
	var total int64
	for i, f := range res.Files {
		assert.Equal(t, filepath.Join(base, "NetCDF", "RadC", path.Base(f.Entry.Key)), f.Path)
		assert.Equal(t, wantNames[i], f.Name)

		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, "netcdf:"+f.Entry.Key, string(data))
		assert.Equal(t, int64(len(data)), f.Size)
		total += f.Size
	}
	assert.Equal(t, total, res.Bytes)

	_, err = os.Stat(filepath.Join(base, "GTif"))
	assert.True(t, os.IsNotExist(err), "GTif directory should not exist without geotiff")

	// Running again overwrites in place.
	_, err = Download(ctx, bucket, catalog(t, keyC02), Options{BaseDir: base})
	require.NoError(t, err)
}

func TestDownloadStartFilter(t *testing.T) {
	ctx := context.Background()
	bucket := openBucket(t, ctx, keyC02, keyC13, keyC02b)
	cat := catalog(t, keyC02, keyC13, keyC02b)

	res, err := Download(ctx, bucket, cat, Options{
		BaseDir:  t.TempDir(),
		Start:    cat[0].Start,
		Location: time.UTC,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "20211231-2001_B02.tif", res.Files[0].Name)
	assert.Equal(t, "20211231-2001_B13.tif", res.Files[1].Name)
}

func TestDownloadPreconditions(t *testing.T) {
	ctx := context.Background()
	cat := catalog(t, keyC02)

	tests := []struct {
		name    string
		cat     goes.Catalog
		opts    Options
		wantErr error
	}{
		{
			name:    "empty catalog",
			cat:     goes.Catalog{},
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "nil catalog",
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "start not in catalog",
			cat:     cat,
			opts:    Options{Start: cat[0].Start.Add(time.Second)},
			wantErr: ErrStartNotFound,
		},
		{
			name:    "start filter on empty catalog",
			cat:     goes.Catalog{},
			opts:    Options{Start: cat[0].Start},
			wantErr: ErrStartNotFound,
		},
		{
			name:    "geotiff without converter",
			cat:     cat,
			opts:    Options{GeoTIFF: true},
			wantErr: ErrNoConverter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			tt.opts.BaseDir = base

			// A nil bucket panics if the downloader reaches for it.
			_, err := Download(ctx, nil, tt.cat, tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrPrecondition)

			_, statErr := os.Stat(filepath.Join(base, "NetCDF"))
			assert.True(t, os.IsNotExist(statErr), "no directory should be created")
		})
	}
}

func TestDownloadGeoTIFF(t *testing.T) {
	ctx := context.Background()
	bucket := openBucket(t, ctx, keyC02, keyC02b)
	base := t.TempDir()
	conv := &fakeConverter{}
	rec := metrics.New()

	res, err := Download(ctx, bucket, catalog(t, keyC02, keyC02b), Options{
		BaseDir:   base,
		GeoTIFF:   true,
		Converter: conv,
		Metrics:   rec,
	})
	require.NoError(t, err)

	require.Len(t, conv.calls, 2)
	assert.Equal(t, [2]string{
		filepath.Join(base, "NetCDF", "RadC", path.Base(keyC02)),
		filepath.Join(base, "GTif", "RadC", "20211231-1201_B02.tif"),
	}, conv.calls[0])
	assert.Equal(t, []string{filepath.Join(base, "GTif", "RadC", "Rad_20211231-1206_B02.tif")}, res.Files[1].Rasters)
	assert.DirExists(t, filepath.Join(base, "GTif", "RadC"))

	promPath := filepath.Join(t.TempDir(), "goesdl.prom")
	require.NoError(t, rec.WriteFile(promPath))
	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `goesdl_files_downloaded_total{product="RadC"} 2`)
	assert.Contains(t, string(prom), `goesdl_rasters_written_total{product="RadC"} 2`)
}

func TestDownloadConversionFailureAborts(t *testing.T) {
	ctx := context.Background()
	bucket := openBucket(t, ctx, keyC02, keyC02b)
	conv := &fakeConverter{failOn: 1}

	res, err := Download(ctx, bucket, catalog(t, keyC02, keyC02b), Options{
		BaseDir:   t.TempDir(),
		GeoTIFF:   true,
		Converter: conv,
	})

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, path.Base(keyC02), filepath.Base(convErr.Source))
	assert.Len(t, conv.calls, 1, "run should stop after the first conversion")
	assert.Len(t, res.Files, 1)
}

func TestDownloadMissingObject(t *testing.T) {
	ctx := context.Background()
	bucket := openBucket(t, ctx, keyC02)

	res, err := Download(ctx, bucket, catalog(t, keyC02, keyC02b), Options{BaseDir: t.TempDir()})
	require.ErrorIs(t, err, ErrObjectNotFound)
	require.Len(t, res.Files, 1)
	assert.FileExists(t, res.Files[0].Path, "first file should be left in place")
}

func TestDownloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bucket := openBucket(t, ctx, keyC02)
	cancel()

	_, err := Download(ctx, bucket, catalog(t, keyC02), Options{BaseDir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadProgress(t *testing.T) {
	ctx := context.Background()
	bucket := openBucket(t, ctx, keyC02, keyC13)
	var buf bytes.Buffer

	_, err := Download(ctx, bucket, catalog(t, keyC02, keyC13), Options{
		BaseDir:  t.TempDir(),
		Progress: &buf,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[goesdl] Downloading 2 files of RadC")
	assert.Contains(t, out, "[goesdl] (2/2) "+path.Base(keyC13))
	assert.Contains(t, out, "[goesdl] Done: 2 files")
}

func TestConvertLocal(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	ncDir := NetCDFPath(base, "RadC")
	require.NoError(t, os.MkdirAll(ncDir, 0o755))
	for _, name := range []string{path.Base(keyC13), path.Base(keyC02), "README.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(ncDir, name), []byte("x"), 0o644))
	}

	conv := &fakeConverter{}
	res, err := ConvertLocal(ctx, "RadC", Options{BaseDir: base, Converter: conv, Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	// Directory order: C02 sorts before C13.
	assert.Equal(t, "20211231-2001_B02.tif", res.Files[0].Name)
	assert.Equal(t, "20211231-2001_B13.tif", res.Files[1].Name)
	assert.Equal(t, filepath.Join(GeoTIFFPath(base, "RadC"), "20211231-2001_B13.tif"), conv.calls[1][1])
}

func TestConvertLocalErrors(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()

	_, err := ConvertLocal(ctx, "RadC", Options{BaseDir: base})
	assert.ErrorIs(t, err, ErrNoConverter)

	_, err = ConvertLocal(ctx, "RadC", Options{BaseDir: base, Converter: &fakeConverter{}})
	assert.Error(t, err, "missing directory")

	require.NoError(t, os.MkdirAll(NetCDFPath(base, "RadC"), 0o755))
	_, err = ConvertLocal(ctx, "RadC", Options{BaseDir: base, Converter: &fakeConverter{}})
	assert.ErrorIs(t, err, ErrNoLocalFiles)
}
