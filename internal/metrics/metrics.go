package metrics

const GardenNamespace = "garden"
