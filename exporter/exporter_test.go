package exporter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/exporter"
	"github.com/airbusgeo/scene-exporter/exporter/entities"
	"github.com/airbusgeo/scene-exporter/service"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"google.golang.org/api/googleapi"
)

var calibration = map[string]interface{}{
	"RADIANCE_MULT_BAND_10": 0.01,
	"RADIANCE_ADD_BAND_10":  -50.0,
	"K1_CONSTANT_BAND_10":   774.8,
	"K2_CONSTANT_BAND_10":   1321.1,
	"CLOUD_COVER":           12.5,
}

const calibrationText = "RADIANCE_MULT_BAND_10: 0.01\nRADIANCE_ADD_BAND_10: -50\nK1_CONSTANT_BAND_10: 774.8\nK2_CONSTANT_BAND_10: 1321.1\n"

var _ = Describe("Exporter", func() {
	var (
		catalog *MokeCatalog
		sink    *MokeSink
		exp     *exporter.Exporter
		job     entities.Job
		report  exporter.Report
		err     error
	)

	BeforeEach(func() {
		catalog = &MokeCatalog{properties: map[string]map[string]interface{}{}}
		sink = &MokeSink{}
		exp = exporter.New(catalog, sink)
		job, err = exporter.Preset(common.Landsat8)
		Expect(err).NotTo(HaveOccurred())
	})

	JustBeforeEach(func() {
		report, err = exp.Run(ctx, job)
	})

	Describe("Running the Landsat 8 preset", func() {
		Context("With one scene", func() {
			BeforeEach(func() {
				catalog.sceneIDs = []string{"LC08_001"}
				catalog.properties["LC08_001"] = calibration
			})

			It("should succeed", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Scenes).To(Equal([]string{"LC08_001"}))
				Expect(report.RunID).NotTo(BeEmpty())
			})

			It("should export the raster cast to float", func() {
				Expect(sink.images).To(HaveLen(1))
				image := sink.images[0]
				Expect(image.Description).To(Equal("Lake_Champlain_LC08_001"))
				Expect(image.FileNamePrefix).To(Equal("Lake_Champlain_LC08_001"))
				Expect(image.Folder).To(Equal("Landsat_8_Data"))
				Expect(image.Scale).To(Equal(30.0))
				Expect(image.Format).To(Equal(common.FormatGeoTIFF))
				Expect(image.Region).To(Equal(exporter.LakeChamplain().Polygon))
				Expect(image.Raster.AssetID).To(Equal("LANDSAT/LC08/C01/T1_TOA/LC08_001"))
				Expect(image.Raster.Cast).To(Equal(common.PixelTypeFloat32))
				for _, band := range image.Raster.Bands {
					Expect(band.PixelType).To(Equal(common.PixelTypeFloat32))
				}
			})

			It("should export the calibration metadata", func() {
				Expect(sink.tables).To(HaveLen(1))
				table := sink.tables[0]
				Expect(table.Description).To(Equal("metadata_LC08_001"))
				Expect(table.FileNamePrefix).To(Equal("Lake_Champlain_LC08_001"))
				Expect(table.Folder).To(Equal("Landsat_8_Data"))
				Expect(table.Format).To(Equal(common.FormatGeoJSON))
				Expect(table.Features).To(HaveLen(1))
				Expect(table.Features[0].Properties).To(Equal(map[string]string{"metadata": calibrationText}))
			})
		})

		Context("With several scenes", func() {
			BeforeEach(func() {
				catalog.sceneIDs = []string{"LC08_014029_20210803", "LC08_014030_20210803", "LC08_014029_20210819"}
				for _, id := range catalog.sceneIDs {
					catalog.properties[id] = calibration
				}
			})

			It("should submit one image and one table per scene, in catalog order", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(sink.images).To(HaveLen(3))
				Expect(sink.tables).To(HaveLen(3))
				Expect(sink.kinds).To(Equal([]string{"image", "table", "image", "table", "image", "table"}))
				for i, id := range catalog.sceneIDs {
					Expect(sink.images[i].SceneID).To(Equal(id))
					Expect(sink.tables[i].SceneID).To(Equal(id))
					Expect(sink.tables[i].Description).To(Equal("metadata_" + id))
				}
			})

			It("should query the catalog once", func() {
				Expect(catalog.queries).To(Equal(1))
			})

			It("should submit the same jobs when run twice", func() {
				images, tables := sink.images, sink.tables
				second := &MokeSink{}
				_, err := exporter.New(catalog, second).Run(ctx, job)
				Expect(err).NotTo(HaveOccurred())
				Expect(second.images).To(Equal(images))
				Expect(second.tables).To(Equal(tables))
			})
		})

		Context("With no scene", func() {
			It("should submit nothing", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Scenes).To(BeEmpty())
				Expect(sink.images).To(BeEmpty())
				Expect(sink.tables).To(BeEmpty())
			})
		})

		Context("With a scene missing a property", func() {
			BeforeEach(func() {
				catalog.sceneIDs = []string{"LC08_002"}
				catalog.properties["LC08_002"] = map[string]interface{}{"RADIANCE_MULT_BAND_10": 0.01}
			})

			It("should write null for the missing values", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(sink.tables[0].Features[0].Properties["metadata"]).To(Equal(
					"RADIANCE_MULT_BAND_10: 0.01\nRADIANCE_ADD_BAND_10: null\nK1_CONSTANT_BAND_10: null\nK2_CONSTANT_BAND_10: null\n"))
			})
		})
	})

	Describe("Failing", func() {
		Context("When the catalog query fails", func() {
			BeforeEach(func() {
				catalog.err = fmt.Errorf("collection not found")
			})

			It("should return the error and submit nothing", func() {
				Expect(err).To(MatchError(ContainSubstring("collection not found")))
				Expect(sink.kinds).To(BeEmpty())
			})
		})

		Context("When the second export is rejected", func() {
			BeforeEach(func() {
				catalog.sceneIDs = []string{"LC08_001", "LC08_002", "LC08_003"}
				sink.failOn = "LC08_002"
				sink.failErr = &googleapi.Error{Code: 503, Message: "quota"}
			})

			It("should stop and keep the jobs already submitted", func() {
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("LC08_002"))
				Expect(service.Temporary(err)).To(BeTrue())
				var gerr *googleapi.Error
				Expect(errors.As(err, &gerr)).To(BeTrue())
				Expect(report.Scenes).To(Equal([]string{"LC08_001"}))
				Expect(sink.kinds).To(Equal([]string{"image", "table"}))
			})
		})

		Context("When a scene cannot be described", func() {
			BeforeEach(func() {
				catalog.sceneIDs = []string{"LC08_001", "LC08_002"}
				catalog.failOn = "LC08_001"
			})

			It("should submit nothing", func() {
				Expect(err).To(HaveOccurred())
				Expect(sink.kinds).To(BeEmpty())
			})
		})

		Context("With an invalid job", func() {
			BeforeEach(func() {
				job.Window.Start, job.Window.End = job.Window.End, job.Window.Start
			})

			It("should return a fatal error without querying the catalog", func() {
				Expect(err).To(HaveOccurred())
				Expect(service.Fatal(err)).To(BeTrue())
				Expect(catalog.queries).To(Equal(0))
			})
		})
	})
})

var _ = Describe("Presets", func() {
	It("should configure Landsat 8", func() {
		job, err := exporter.Preset(common.Landsat8)
		Expect(err).NotTo(HaveOccurred())
		Expect(job.Validate()).To(Succeed())
		Expect(job.Collection).To(Equal("LANDSAT/LC08/C01/T1_TOA"))
		Expect(job.Window.String()).To(Equal("2021-08-01..2021-10-31"))
		Expect(job.Folder).To(Equal("Landsat_8_Data"))
		Expect(job.RegionLabel).To(Equal("Lake_Champlain"))
		Expect(job.Properties).To(Equal([]string{"RADIANCE_MULT_BAND_10", "RADIANCE_ADD_BAND_10", "K1_CONSTANT_BAND_10", "K2_CONSTANT_BAND_10"}))
	})

	It("should configure Landsat 9", func() {
		job, err := exporter.Preset(common.Landsat9)
		Expect(err).NotTo(HaveOccurred())
		Expect(job.Validate()).To(Succeed())
		Expect(job.Collection).To(Equal("LANDSAT/LC09/C02/T1_TOA"))
		Expect(job.Window.String()).To(Equal("2021-10-01..2021-12-31"))
		Expect(job.Folder).To(Equal("Landsat_9_Data"))
	})

	It("should return independent values", func() {
		a, _ := exporter.Preset(common.Landsat8)
		a.Properties[0] = "CHANGED"
		a.Region.Polygon[0][0][0] = 0
		b, _ := exporter.Preset(common.Landsat8)
		Expect(b.Properties[0]).To(Equal("RADIANCE_MULT_BAND_10"))
		Expect(b.Region.Ring()[0][0]).To(Equal(-73.69076684855565))
	})

	It("should fail on an unknown source", func() {
		_, err := exporter.Preset(common.UnknownSource)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Handler", func() {
	var (
		catalog *MokeCatalog
		sink    *MokeSink
		handler http.Handler
		rec     *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		catalog = &MokeCatalog{sceneIDs: []string{"LC09_001"}, properties: map[string]map[string]interface{}{"LC09_001": calibration}}
		sink = &MokeSink{}
		handler = exporter.New(catalog, sink).NewHandler()
		rec = httptest.NewRecorder()
	})

	It("should run a preset", func() {
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/export?source=landsat9", nil))
		Expect(rec.Code).To(Equal(200))
		var report exporter.Report
		Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
		Expect(report.Scenes).To(Equal([]string{"LC09_001"}))
		Expect(sink.images[0].Folder).To(Equal("Landsat_9_Data"))
	})

	It("should run the job of the body", func() {
		job, _ := exporter.Preset(common.Landsat8)
		job.Folder = "Custom_Folder"
		body, err := json.Marshal(job)
		Expect(err).NotTo(HaveOccurred())
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/export", bytes.NewReader(body)))
		Expect(rec.Code).To(Equal(200))
		Expect(sink.images).To(HaveLen(1))
		Expect(sink.images[0].Folder).To(Equal("Custom_Folder"))
		Expect(sink.images[0].Region).To(Equal(job.Region.Polygon))
	})

	It("should reject an invalid job", func() {
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/export", bytes.NewReader([]byte(`{"region_label":"bad label"}`))))
		Expect(rec.Code).To(Equal(400))
		Expect(sink.kinds).To(BeEmpty())
	})

	It("should return 503 when the sink is unavailable", func() {
		sink.failOn = "LC09_001"
		sink.failErr = &googleapi.Error{Code: 503, Message: "backend error"}
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/export?source=L9", nil))
		Expect(rec.Code).To(Equal(503))
	})

	It("should reject an unknown source", func() {
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/export?source=sentinel2", nil))
		Expect(rec.Code).To(Equal(400))
	})

	It("should list the presets", func() {
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/presets", nil))
		Expect(rec.Code).To(Equal(200))
		presets := map[string]entities.Job{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &presets)).To(Succeed())
		Expect(presets).To(HaveKey("Landsat8"))
		Expect(presets).To(HaveKey("Landsat9"))
	})

	It("should return 404 on an unknown preset", func() {
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/presets/unknown", nil))
		Expect(rec.Code).To(Equal(404))
	})
})
